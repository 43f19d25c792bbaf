// Package report_repo provides PostgreSQL implementations for report repositories.
// Reports read database views; nothing here writes.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"psi/internal/domain/reports"
	"psi/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	db      postgres.DB
	builder squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(db postgres.DB) *ReportRepo {
	return &ReportRepo{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// where applies search and filters of q.
func (r *ReportRepo) where(sb squirrel.SelectBuilder, q reports.Query) (squirrel.SelectBuilder, error) {
	if q.Search != "" && len(q.Searchable) > 0 {
		pattern := "%" + q.Search + "%"
		or := make(squirrel.Or, len(q.Searchable))
		for i, col := range q.Searchable {
			or[i] = squirrel.ILike{col: pattern}
		}
		sb = sb.Where(or)
	}
	return postgres.ApplyFilters(sb, q.Filters, q.Filterable)
}

func (r *ReportRepo) selectQuery(q reports.Query) (squirrel.SelectBuilder, error) {
	sb, err := r.where(r.builder.Select(q.Columns...).From(q.View), q)
	if err != nil {
		return sb, err
	}
	if q.OrderBy != "" {
		sb = sb.OrderBy(q.OrderBy)
	}
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		sb = sb.Offset(uint64(q.Offset))
	}
	return sb, nil
}

func (r *ReportRepo) countQuery(q reports.Query) (squirrel.SelectBuilder, error) {
	return r.where(r.builder.Select("COUNT(*)").From(q.View), q)
}

// QuerySupplierSales returns one page of a supplier sales view.
func (r *ReportRepo) QuerySupplierSales(ctx context.Context, q reports.Query) ([]reports.SupplierSalesRow, error) {
	sb, err := r.selectQuery(q)
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", q.View, err)
	}

	rows := make([]reports.SupplierSalesRow, 0)
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", q.View, err)
	}
	return rows, nil
}

// CountSupplierSales counts the rows of a supplier sales view.
func (r *ReportRepo) CountSupplierSales(ctx context.Context, q reports.Query) (int64, error) {
	sb, err := r.countQuery(q)
	if err != nil {
		return 0, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s count: %w", q.View, err)
	}

	var total int64
	if err := r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.View, err)
	}
	return total, nil
}
