package document_repo

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain/documents/invoice"
	"airsolutions/internal/domain/pricing"
	"airsolutions/internal/infrastructure/storage/postgres"
)

func newInvoiceRepo(t *testing.T) (*InvoiceRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewInvoiceRepo(postgres.StaticQuerier{Q: mock}), mock
}

func TestInvoiceRepo_DeleteRemovesPaymentsLinesThenHeader(t *testing.T) {
	repo, mock := newInvoiceRepo(t)
	invoiceID := id.New()

	mock.ExpectExec(`DELETE FROM invoice_payments WHERE invoice_id = \$1`).
		WithArgs(invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM invoice_lines WHERE invoice_id = \$1`).
		WithArgs(invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), invoiceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepo_DeleteMissing(t *testing.T) {
	repo, mock := newInvoiceRepo(t)
	invoiceID := id.New()

	mock.ExpectExec(`DELETE FROM invoice_payments`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM invoice_lines`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM invoices`).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), invoiceID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestInvoiceRepo_ReplaceLinesUsesOneInsert(t *testing.T) {
	repo, mock := newInvoiceRepo(t)
	invoiceID := id.New()

	var c apperror.Collector
	lines := pricing.Build([]pricing.Input{
		{Name: "Instalación", Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("100")},
		{Name: "Tubería", Quantity: types.MustMoney("3"), UnitPrice: types.MustMoney("12.50")},
	}, "at least one line", &c)
	require.NoError(t, c.Err())

	mock.ExpectExec(`DELETE FROM invoice_lines WHERE invoice_id = \$1`).
		WithArgs(invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO invoice_lines \(invoice_id,id,line_no,name,.*\) VALUES \(.*\),\(.*\)`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	require.NoError(t, repo.ReplaceLines(context.Background(), invoiceID, lines))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepo_UpdateLeavesCreationColumnsAlone(t *testing.T) {
	repo, mock := newInvoiceRepo(t)
	inv := &invoice.Invoice{ClientID: id.New(), InvoiceCode: "FACTURA-00001", Status: invoice.StatusSent}
	inv.ID = id.New()
	inv.CreatedBy = "cristhian"

	// SET columns are sorted; created_at and created_by would sit between
	// client_id and description.
	mock.ExpectExec(`UPDATE invoices SET balance_due = \$1, client_id = \$2, description = \$3, .* WHERE id = \$18`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), inv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepo_ExistsScansFlag(t *testing.T) {
	repo, mock := newInvoiceRepo(t)
	invoiceID := id.New()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM invoices WHERE id = \$1\)`).
		WithArgs(invoiceID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.Exists(context.Background(), invoiceID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseOrderBy(t *testing.T) {
	repo := NewInvoiceRepo(nil)

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "d.created_at DESC", got)

	got, err = repo.parseOrderBy("-issue_date")
	require.NoError(t, err)
	assert.Equal(t, "d.issue_date DESC", got)

	got, err = repo.parseOrderBy("invoice_code")
	require.NoError(t, err)
	assert.Equal(t, "d.invoice_code ASC", got)

	_, err = repo.parseOrderBy("password_hash")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestSearchAny(t *testing.T) {
	sql, args, err := searchAny(" ana ", "d.name", "c.first_name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(d.name ILIKE ? OR c.first_name ILIKE ?)", sql)
	assert.Equal(t, []any{"%ana%", "%ana%"}, args)
}
