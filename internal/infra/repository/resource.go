package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/resource"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var resourceColumns = []string{"id", "branch_id", "name", "total_quantity", "created_at", "updated_at"}

type ResourceRepository struct {
	db db.DBTX
}

func NewResourceRepository(db db.DBTX) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	query, args, err := psql.Insert("resources").
		Columns(resourceColumns...).
		Values(res.ID(), res.BranchID(), res.Name(), res.TotalQuantity(), res.CreatedAt(), res.UpdatedAt()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build resource insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.ClassifyPgErr("failed to create resource", err)
	}
	return nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	query, args, err := psql.Update("resources").
		Set("name", res.Name()).
		Set("total_quantity", res.TotalQuantity()).
		Set("updated_at", res.UpdatedAt()).
		Where(sq.Eq{"id": res.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build resource update", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.ClassifyPgErr("failed to update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "resource not found", nil)
	}
	return nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	query, args, err := psql.Select(resourceColumns...).From("resources").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build resource query", err)
	}
	res, err := scanResource(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to find resource", err)
	}
	return res, nil
}

func (r *ResourceRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*resource.Resource, error) {
	return r.list(ctx, psql.Select(resourceColumns...).From("resources").Where(sq.Eq{"branch_id": branchID}).OrderBy("name", "id"))
}

func (r *ResourceRepository) ListAll(ctx context.Context) ([]*resource.Resource, error) {
	return r.list(ctx, psql.Select(resourceColumns...).From("resources").OrderBy("branch_id", "id"))
}

func (r *ResourceRepository) list(ctx context.Context, sel sq.SelectBuilder) ([]*resource.Resource, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build resource list", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to list resources", err)
	}
	defer rows.Close()

	var out []*resource.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan resource", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("failed to iterate resources", err)
	}
	return out, nil
}

func scanResource(row pgx.Row) (*resource.Resource, error) {
	var (
		id, branchID         uuid.UUID
		name                 string
		totalQuantity        int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &branchID, &name, &totalQuantity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return resource.ReconstructResource(id, branchID, name, totalQuantity, createdAt, updatedAt), nil
}
