// Package document_repo provides PostgreSQL implementations for document
// repositories (quotes, invoices). A document is a header row plus priced
// lines in a child table.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/pricing"
	"airsolutions/internal/infrastructure/storage/postgres"
)

// headerAlias qualifies header columns in list queries that join clients.
const headerAlias = "d"

// DocumentConfig describes the tables behind a document repository.
type DocumentConfig struct {
	Table string
	// Entity is used in error messages ("invoice not found").
	Entity string
	// LinesTable holds the priced lines; ParentColumn references the header.
	LinesTable   string
	ParentColumn string
}

// BaseDocumentRepo provides header and line persistence shared by documents.
type BaseDocumentRepo[T any] struct {
	db           postgres.QuerierProvider
	tableName    string
	entityName   string
	linesTable   string
	parentColumn string
	selectCols   []string
	lineCols     []string
	newFn        func() T
}

// NewBaseDocumentRepo creates a new base document repository. Header
// columns come from the db tags of T.
func NewBaseDocumentRepo[T any](db postgres.QuerierProvider, cfg DocumentConfig, selectCols []string, newFn func() T) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		db:           db,
		tableName:    cfg.Table,
		entityName:   cfg.Entity,
		linesTable:   cfg.LinesTable,
		parentColumn: cfg.ParentColumn,
		selectCols:   selectCols,
		lineCols:     postgres.ExtractDBColumns[pricing.Line](),
		newFn:        newFn,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the querier bound to ctx (transaction or pool).
func (r *BaseDocumentRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.db.GetQuerier(ctx)
}

// CreateHeader inserts the header row.
func (r *BaseDocumentRepo[T]) CreateHeader(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if mapped := postgres.MapError(err, r.entityName, data["id"]); apperror.IsAppError(mapped) {
			return mapped
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// immutableColumns never appear in the SET clause of a header update.
var immutableColumns = []string{"id", "created_at", "created_by"}

// Update writes every mutable header column.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
	entityID, ok := postgres.StructToMap(entity)["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field")
	}

	data := postgres.StructToMapExcept(entity, immutableColumns...)
	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}
	if len(filteredData) == 0 {
		return fmt.Errorf("no mutable columns found in entity")
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(filteredData).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if mapped := postgres.MapError(err, r.entityName, entityID); apperror.IsAppError(mapped) {
			return mapped
		}
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, fmt.Sprint(entityID))
	}
	return nil
}

// baseSelect creates a SELECT builder over the header table.
func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *BaseDocumentRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, entityID id.ID) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, entityID.String())
		}
		return entity, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return entity, nil
}

// GetHeader retrieves the header row by ID.
func (r *BaseDocumentRepo[T]) GetHeader(ctx context.Context, entityID id.ID) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}), entityID)
}

// GetHeaderForUpdate retrieves the header row with a row lock.
func (r *BaseDocumentRepo[T]) GetHeaderForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Suffix("FOR UPDATE"), entityID)
}

// Exists checks if the document exists.
func (r *BaseDocumentRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	var exists bool
	err := r.Querier(ctx).QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+r.tableName+" WHERE id = $1)", entityID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.tableName, err)
	}
	return exists, nil
}

// DeleteDocument removes the lines and then the header.
func (r *BaseDocumentRepo[T]) DeleteDocument(ctx context.Context, entityID id.ID) error {
	querier := r.Querier(ctx)

	if _, err := querier.Exec(ctx,
		"DELETE FROM "+r.linesTable+" WHERE "+r.parentColumn+" = $1", entityID); err != nil {
		return fmt.Errorf("delete %s: %w", r.linesTable, err)
	}

	result, err := querier.Exec(ctx, "DELETE FROM "+r.tableName+" WHERE id = $1", entityID)
	if err != nil {
		if mapped := postgres.MapError(err, r.entityName, entityID.String()); apperror.IsAppError(mapped) {
			return mapped
		}
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

// GetLines retrieves the lines of a document ordered by line number.
func (r *BaseDocumentRepo[T]) GetLines(ctx context.Context, docID id.ID) ([]pricing.Line, error) {
	sql, args, err := r.Builder().
		Select(r.lineCols...).
		From(r.linesTable).
		Where(squirrel.Eq{r.parentColumn: docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := []pricing.Line{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// InsertLines inserts lines for a document in one statement.
func (r *BaseDocumentRepo[T]) InsertLines(ctx context.Context, docID id.ID, lines []pricing.Line) error {
	if len(lines) == 0 {
		return nil
	}

	cols := append([]string{r.parentColumn}, r.lineCols...)
	q := r.Builder().Insert(r.linesTable).Columns(cols...)
	for i := range lines {
		data := postgres.StructToMap(&lines[i])
		values := make([]any, 0, len(cols))
		values = append(values, docID)
		for _, col := range r.lineCols {
			values = append(values, data[col])
		}
		q = q.Values(values...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// ReplaceLines deletes the current lines and inserts lines.
func (r *BaseDocumentRepo[T]) ReplaceLines(ctx context.Context, docID id.ID, lines []pricing.Line) error {
	if _, err := r.Querier(ctx).Exec(ctx,
		"DELETE FROM "+r.linesTable+" WHERE "+r.parentColumn+" = $1", docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}
	return r.InsertLines(ctx, docID, lines)
}

// qualifiedColumns returns the header columns prefixed with the list alias.
func (r *BaseDocumentRepo[T]) qualifiedColumns() []string {
	cols := make([]string, len(r.selectCols))
	for i, col := range r.selectCols {
		cols[i] = headerAlias + "." + col
	}
	return cols
}

// listPage counts the rows matched by q, applies ordering and paging and
// scans the page into items.
func listPage[I any](ctx context.Context, querier postgres.Querier, b squirrel.StatementBuilderType, q squirrel.SelectBuilder, f domain.ListFilter, orderBy string) (domain.ListResult[I], error) {
	result := domain.ListResult[I]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	countSQL, countArgs, err := b.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(orderBy)
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	result.Items = []I{}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}

// searchAny matches search against every column with ILIKE.
func searchAny(search string, cols ...string) squirrel.Or {
	pattern := postgres.ContainsPattern(search)
	or := make(squirrel.Or, 0, len(cols))
	for _, col := range cols {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return or
}

func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return headerAlias + ".created_at DESC", nil
	}

	allowed := make(map[string]struct{}, len(r.selectCols))
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return headerAlias + "." + field + " " + direction, nil
}
