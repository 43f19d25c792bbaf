package dbutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"psi/internal/core/apperror"
	"psi/internal/core/entity"
	"psi/internal/core/id"
	"psi/internal/infrastructure/storage/postgres"
)

// upsertQuery builds INSERT ... ON CONFLICT (id) DO UPDATE for one object.
func upsertQuery(obj entity.Persistable) (sq.InsertBuilder, error) {
	meta := obj.Meta()
	cols, vals := postgres.StructToColumns(obj)
	if len(cols) == 0 {
		return sq.InsertBuilder{}, fmt.Errorf("%T has no db columns", obj)
	}

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "id" {
			continue
		}
		sets = append(sets, c+" = EXCLUDED."+c)
	}

	q := builder().Insert(meta.Table).Columns(cols...).Values(vals...)
	if len(sets) == 0 {
		return q.Suffix("ON CONFLICT (id) DO NOTHING"), nil
	}
	return q.Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ")), nil
}

// SaveObjectsCommit inserts or updates every object in one transaction.
// Objects are written in argument order, so parents go before children.
func (s *Store) SaveObjectsCommit(ctx context.Context, objs ...entity.Persistable) error {
	if len(objs) == 0 {
		return nil
	}

	return s.db.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := s.db.GetQuerier(ctx)
		for _, obj := range objs {
			q, err := upsertQuery(obj)
			if err != nil {
				return err
			}
			sql, args, err := q.ToSql()
			if err != nil {
				return fmt.Errorf("build %s upsert: %w", obj.Meta().Table, err)
			}
			if _, err := querier.Exec(ctx, sql, args...); err != nil {
				return mapWriteErr(obj.Meta(), obj.GetID(), err)
			}
		}
		return nil
	})
}

// cascadeDeletes returns DELETE statements for the children of a row,
// deepest level first so no foreign key is left dangling.
func cascadeDeletes(children []entity.ChildTable, filterFor func(c entity.ChildTable) sq.Sqlizer) []sq.DeleteBuilder {
	var out []sq.DeleteBuilder
	for _, c := range children {
		where := filterFor(c)
		if len(c.Children) > 0 {
			parentIDs := sq.Select("id").From(c.Table).Where(where)
			out = append(out, cascadeDeletes(c.Children, func(g entity.ChildTable) sq.Sqlizer {
				return sq.Expr(g.ForeignKey+" IN (?)", parentIDs)
			})...)
		}
		out = append(out, builder().Delete(c.Table).Where(where))
	}
	return out
}

// deleteStatements lists every statement DeleteByID runs after the row lock.
func deleteStatements(meta entity.Meta, rowID id.ID) []sq.DeleteBuilder {
	stmts := cascadeDeletes(meta.Children, func(c entity.ChildTable) sq.Sqlizer {
		return sq.Eq{c.ForeignKey: rowID}
	})
	return append(stmts, builder().Delete(meta.Table).Where(sq.Eq{"id": rowID}))
}

// DeleteByID loads the row by primary key and deletes it together with its
// child rows in one transaction. A missing row is reported as NotFound.
func (s *Store) DeleteByID(ctx context.Context, meta entity.Meta, rowID id.ID) error {
	return s.db.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := s.db.GetQuerier(ctx)

		lockSQL, lockArgs, err := builder().
			Select("id").From(meta.Table).
			Where(sq.Eq{"id": rowID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build %s lock: %w", meta.Table, err)
		}

		var locked id.ID
		if err := querier.QueryRow(ctx, lockSQL, lockArgs...).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NewNotFound(entityName(meta), rowID.String())
			}
			return fmt.Errorf("load %s %s: %w", meta.Table, rowID, err)
		}

		for _, stmt := range deleteStatements(meta, rowID) {
			sql, args, err := stmt.ToSql()
			if err != nil {
				return fmt.Errorf("build %s delete: %w", meta.Table, err)
			}
			if _, err := querier.Exec(ctx, sql, args...); err != nil {
				return mapWriteErr(meta, rowID, err)
			}
		}
		return nil
	})
}

func entityName(meta entity.Meta) string {
	if meta.Entity != "" {
		return meta.Entity
	}
	return meta.Table
}

// mapWriteErr turns constraint violations into AppErrors and wraps the rest.
func mapWriteErr(meta entity.Meta, rowID id.ID, err error) error {
	switch {
	case postgres.IsForeignKeyViolation(err):
		return apperror.NewConflict(fmt.Sprintf("%s is referenced by or references a missing record", entityName(meta))).
			WithDetail("id", rowID.String()).
			WithDetail("constraint", postgres.ConstraintName(err)).
			WithCause(err)
	case postgres.IsUniqueViolation(err):
		return apperror.NewDuplicate(entityName(meta), postgres.ConstraintName(err), rowID.String()).
			WithCause(err)
	default:
		return fmt.Errorf("write %s %s: %w", meta.Table, rowID, err)
	}
}
