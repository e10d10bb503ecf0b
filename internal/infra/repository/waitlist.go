package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"
	"booking-engine/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var waitlistColumns = []string{
	"id", "branch_id", "service_id", "service_option_id", "staff_id", "customer_id",
	"desired_from", "desired_to", "comments", "auto_book", "status", "matched_booking",
	"created_at", "updated_at",
}

type WaitlistRepository struct {
	db db.DBTX
}

func NewWaitlistRepository(db db.DBTX) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	from, to := timestamptz(e.Desired())
	query, args, err := psql.Insert("waitlist_entries").
		Columns(waitlistColumns...).
		Values(
			e.ID(), e.BranchID(), e.ServiceID(),
			pgconv.UUIDPtrToPgtype(e.ServiceOptionID()), pgconv.UUIDPtrToPgtype(e.StaffID()),
			e.CustomerID(), from, to, e.Comments(), e.AutoBook(), string(e.Status()),
			pgconv.UUIDPtrToPgtype(e.MatchedBooking()), e.CreatedAt(), e.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build waitlist insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.ClassifyPgErr("failed to create waitlist entry", err)
	}
	return nil
}

// UpdateStatus is a compare-and-set on the stored status.
func (r *WaitlistRepository) UpdateStatus(ctx context.Context, e *waitlist.Entry, expected waitlist.Status) error {
	query, args, err := psql.Update("waitlist_entries").
		Set("status", string(e.Status())).
		Set("matched_booking", pgconv.UUIDPtrToPgtype(e.MatchedBooking())).
		Set("updated_at", e.UpdatedAt()).
		Where(sq.Eq{"id": e.ID(), "status": string(expected)}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build waitlist update", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.ClassifyPgErr("failed to update waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindConflict, "waitlist entry is no longer "+string(expected), nil)
	}
	return nil
}

func (r *WaitlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	query, args, err := psql.Select(waitlistColumns...).From("waitlist_entries").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build waitlist query", err)
	}
	e, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to find waitlist entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) ListActiveForSlot(ctx context.Context, branchID, serviceID uuid.UUID, w window.Window) ([]*waitlist.Entry, error) {
	return r.list(ctx, psql.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(sq.Eq{
			"branch_id":  branchID,
			"service_id": serviceID,
			"status":     string(waitlist.StatusActive),
		}).
		Where(sq.Lt{"desired_from": w.To()}).
		Where(sq.Gt{"desired_to": w.From()}).
		OrderBy("created_at", "id"))
}

func (r *WaitlistRepository) List(ctx context.Context, filter shared.WaitlistFilter) ([]*waitlist.Entry, error) {
	sel := psql.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(sq.Eq{"branch_id": filter.BranchID}).
		OrderBy("created_at", "id")
	if filter.Status != nil {
		sel = sel.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.Limit > 0 {
		sel = sel.Limit(uint64(filter.Limit))
	}
	return r.list(ctx, sel)
}

func (r *WaitlistRepository) list(ctx context.Context, sel sq.SelectBuilder) ([]*waitlist.Entry, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build waitlist list", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	var out []*waitlist.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan waitlist entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("failed to iterate waitlist entries", err)
	}
	return out, nil
}

func scanEntry(row pgx.Row) (*waitlist.Entry, error) {
	var (
		id, branchID, serviceID, customerID uuid.UUID
		serviceOptionID, staffID, matched   pgtype.UUID
		from, to, createdAt, updatedAt      time.Time
		comments, status                    string
		autoBook                            bool
	)
	err := row.Scan(&id, &branchID, &serviceID, &serviceOptionID, &staffID, &customerID,
		&from, &to, &comments, &autoBook, &status, &matched, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	desired, err := window.New(from, to)
	if err != nil {
		return nil, err
	}
	st, err := waitlist.NewStatus(status)
	if err != nil {
		return nil, err
	}

	return waitlist.ReconstructEntry(
		id, branchID, serviceID,
		pgconv.UUIDPtrFromPgtype(serviceOptionID), pgconv.UUIDPtrFromPgtype(staffID),
		customerID, desired, comments, autoBook, st,
		pgconv.UUIDPtrFromPgtype(matched),
		createdAt, updatedAt,
	), nil
}
