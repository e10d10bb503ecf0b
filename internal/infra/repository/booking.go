package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var bookingColumns = []string{
	"id", "branch_id", "service_id", "service_option_id", "customer_id", "staff_id",
	"starts_at", "ends_at", "service_total", "status", "note", "waitlist_entry_id",
	"created_at", "updated_at",
}

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	from, to := timestamptz(b.Window())
	query, args, err := psql.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			b.ID(), b.BranchID(), b.ServiceID(), pgconv.UUIDPtrToPgtype(b.ServiceOptionID()),
			b.CustomerID(), pgconv.UUIDPtrToPgtype(b.StaffID()),
			from, to, pgconv.NumericFromDecimal(b.ServiceTotal()), b.Status().String(), b.Note(),
			pgconv.UUIDPtrToPgtype(b.WaitlistEntryID()), b.CreatedAt(), b.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build booking insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.ClassifyPgErr("failed to create booking", err)
	}

	if ids := b.ResourceIDs(); len(ids) > 0 {
		ins := psql.Insert("booking_resources").Columns("booking_id", "resource_id")
		for _, id := range ids {
			ins = ins.Values(b.ID(), id)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to build booking resources insert", err)
		}
		if _, err := r.db.Exec(ctx, query, args...); err != nil {
			return infra.ClassifyPgErr("failed to attach booking resources", err)
		}
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	from, to := timestamptz(b.Window())
	query, args, err := psql.Update("bookings").
		Set("staff_id", pgconv.UUIDPtrToPgtype(b.StaffID())).
		Set("starts_at", from).
		Set("ends_at", to).
		Set("service_total", pgconv.NumericFromDecimal(b.ServiceTotal())).
		Set("status", b.Status().String()).
		Set("note", b.Note()).
		Set("updated_at", b.UpdatedAt()).
		Where(sq.Eq{"id": b.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build booking update", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.ClassifyPgErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, psql.Select(bookingColumns...).From("bookings").Where(sq.Eq{"id": id}))
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, psql.Select(bookingColumns...).From("bookings").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *BookingRepository) ListScheduledEndingAfter(ctx context.Context, t time.Time) ([]*booking.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"status": booking.StatusScheduled.String()}).
		Where(sq.Gt{"ends_at": t}).
		OrderBy("starts_at", "id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build booking list", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to list bookings", err)
	}
	defer rows.Close()

	var (
		list []*bookingRow
		ids  []uuid.UUID
	)
	for rows.Next() {
		row, err := scanBookingRow(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
		}
		list = append(list, row)
		ids = append(ids, row.id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("failed to iterate bookings", err)
	}

	resources, err := r.resourcesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	bookings := make([]*booking.Booking, 0, len(list))
	for _, row := range list {
		b, err := row.toDomain(resources[row.id])
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt booking row", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *BookingRepository) findOne(ctx context.Context, sel sq.SelectBuilder) (*booking.Booking, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build booking query", err)
	}

	row, err := scanBookingRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to find booking", err)
	}

	resources, err := r.resourcesFor(ctx, []uuid.UUID{row.id})
	if err != nil {
		return nil, err
	}

	b, err := row.toDomain(resources[row.id])
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt booking row", err)
	}
	return b, nil
}

func (r *BookingRepository) resourcesFor(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("booking_id", "resource_id").
		From("booking_resources").
		Where(sq.Eq{"booking_id": bookingIDs}).
		OrderBy("booking_id", "resource_id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build booking resources query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to load booking resources", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID, resourceID uuid.UUID
		if err := rows.Scan(&bookingID, &resourceID); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking resource", err)
		}
		out[bookingID] = append(out[bookingID], resourceID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("failed to iterate booking resources", err)
	}
	return out, nil
}

type bookingRow struct {
	id              uuid.UUID
	branchID        uuid.UUID
	serviceID       uuid.UUID
	serviceOptionID pgtype.UUID
	customerID      uuid.UUID
	staffID         pgtype.UUID
	startsAt        time.Time
	endsAt          time.Time
	serviceTotal    pgtype.Numeric
	status          string
	note            string
	waitlistEntryID pgtype.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func scanBookingRow(row pgx.Row) (*bookingRow, error) {
	var r bookingRow
	err := row.Scan(
		&r.id, &r.branchID, &r.serviceID, &r.serviceOptionID, &r.customerID, &r.staffID,
		&r.startsAt, &r.endsAt, &r.serviceTotal, &r.status, &r.note, &r.waitlistEntryID,
		&r.createdAt, &r.updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *bookingRow) toDomain(resourceIDs []uuid.UUID) (*booking.Booking, error) {
	w, err := window.New(r.startsAt, r.endsAt)
	if err != nil {
		return nil, err
	}
	total, err := pgconv.DecimalFromNumeric(r.serviceTotal)
	if err != nil {
		return nil, err
	}
	status := booking.Status(r.status)
	if !status.IsValid() {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "unknown booking status "+r.status, nil)
	}

	return booking.ReconstructBooking(
		r.id, r.branchID, r.serviceID,
		pgconv.UUIDPtrFromPgtype(r.serviceOptionID),
		r.customerID,
		pgconv.UUIDPtrFromPgtype(r.staffID),
		resourceIDs,
		w,
		total,
		status,
		r.note,
		pgconv.UUIDPtrFromPgtype(r.waitlistEntryID),
		r.createdAt, r.updatedAt,
	), nil
}
