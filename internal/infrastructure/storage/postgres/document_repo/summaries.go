package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/infrastructure/storage/postgres"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// uniqueIDs drops duplicates and nil pointers, keeping first-seen order.
func uniqueIDs(ids []*id.ID) []id.ID {
	seen := make(map[id.ID]struct{}, len(ids))
	out := make([]id.ID, 0, len(ids))
	for _, p := range ids {
		if p == nil {
			continue
		}
		if _, ok := seen[*p]; ok {
			continue
		}
		seen[*p] = struct{}{}
		out = append(out, *p)
	}
	return out
}

// loadClientSummaries fetches the summaries of the given clients in one query.
func loadClientSummaries(ctx context.Context, q postgres.Querier, ids []*id.ID) (map[id.ID]*client.Summary, error) {
	out := make(map[id.ID]*client.Summary)
	keys := uniqueIDs(ids)
	if len(keys) == 0 {
		return out, nil
	}

	sql, args, err := builder.
		Select("id", "client_type", "first_name", "last_name", "company_name", "phone", "email").
		From("clients").
		Where(squirrel.Eq{"id": keys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client summaries: %w", err)
	}

	var rows []*client.Summary
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load client summaries: %w", err)
	}
	for _, s := range rows {
		out[s.ID] = s
	}
	return out, nil
}

// loadVoucherSummaries fetches the summaries of the given vouchers in one query.
func loadVoucherSummaries(ctx context.Context, q postgres.Querier, ids []*id.ID) (map[id.ID]*fiscalvoucher.Summary, error) {
	out := make(map[id.ID]*fiscalvoucher.Summary)
	keys := uniqueIDs(ids)
	if len(keys) == 0 {
		return out, nil
	}

	sql, args, err := builder.
		Select("id", "voucher_number", "voucher_type").
		From("fiscal_vouchers").
		Where(squirrel.Eq{"id": keys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build voucher summaries: %w", err)
	}

	var rows []*fiscalvoucher.Summary
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load voucher summaries: %w", err)
	}
	for _, s := range rows {
		out[s.ID] = s
	}
	return out, nil
}
