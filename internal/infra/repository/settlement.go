package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type SettlementRepository struct {
	db db.DBTX
}

func NewSettlementRepository(db db.DBTX) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// Create relies on the settlements primary key: a second settlement for the same
// booking fails with KindDuplicateKey.
func (r *SettlementRepository) Create(ctx context.Context, s *settlement.Settlement) error {
	query, args, err := psql.Insert("settlements").
		Columns("booking_id", "status", "service_total", "products_total", "grand_total", "note", "reconciled_at").
		Values(
			s.BookingID(), s.Status().String(),
			pgconv.NumericFromDecimal(s.ServiceTotal()),
			pgconv.NumericFromDecimal(s.ProductsTotal()),
			pgconv.NumericFromDecimal(s.GrandTotal()),
			s.Note(), s.ReconciledAt(),
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build settlement insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.ClassifyPgErr("failed to create settlement", err)
	}

	if products := s.Products(); len(products) > 0 {
		ins := psql.Insert("settlement_product_lines").
			Columns("booking_id", "position", "product_id", "quantity", "unit_price", "total")
		for i, p := range products {
			ins = ins.Values(s.BookingID(), i, p.ProductID, p.Quantity,
				pgconv.NumericFromDecimal(p.UnitPrice), pgconv.NumericFromDecimal(p.Total))
		}
		if err := r.exec(ctx, ins, "failed to create settlement products"); err != nil {
			return err
		}
	}

	if payments := s.Payments(); len(payments) > 0 {
		ins := psql.Insert("settlement_payment_lines").
			Columns("booking_id", "position", "method", "amount")
		for i, p := range payments {
			ins = ins.Values(s.BookingID(), i, p.Method.String(), pgconv.NumericFromDecimal(p.Amount))
		}
		if err := r.exec(ctx, ins, "failed to create settlement payments"); err != nil {
			return err
		}
	}
	return nil
}

func (r *SettlementRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*settlement.Settlement, error) {
	query, args, err := psql.Select("status", "service_total", "products_total", "grand_total", "note", "reconciled_at").
		From("settlements").
		Where(sq.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build settlement query", err)
	}

	var (
		status                                  string
		serviceTotal, productsTotal, grandTotal pgtype.Numeric
		note                                    string
		reconciledAt                            time.Time
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(&status, &serviceTotal, &productsTotal, &grandTotal, &note, &reconciledAt)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to find settlement", err)
	}

	products, err := r.products(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	payments, err := r.payments(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	totals := make([]decimal.Decimal, 0, 3)
	for _, n := range []pgtype.Numeric{serviceTotal, productsTotal, grandTotal} {
		d, err := pgconv.DecimalFromNumeric(n)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt settlement total", err)
		}
		totals = append(totals, d)
	}

	return settlement.ReconstructSettlement(
		bookingID,
		settlement.Outcome(status),
		totals[0], totals[1], totals[2],
		products,
		payments,
		note,
		reconciledAt,
	), nil
}

func (r *SettlementRepository) products(ctx context.Context, bookingID uuid.UUID) ([]settlement.Product, error) {
	query, args, err := psql.Select("product_id", "quantity", "unit_price", "total").
		From("settlement_product_lines").
		Where(sq.Eq{"booking_id": bookingID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build product lines query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to load product lines", err)
	}
	defer rows.Close()

	var out []settlement.Product
	for rows.Next() {
		var (
			p                settlement.Product
			unitPrice, total pgtype.Numeric
		)
		if err := rows.Scan(&p.ProductID, &p.Quantity, &unitPrice, &total); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan product line", err)
		}
		if p.UnitPrice, err = pgconv.DecimalFromNumeric(unitPrice); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt unit price", err)
		}
		if p.Total, err = pgconv.DecimalFromNumeric(total); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt line total", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("failed to iterate product lines", err)
	}
	return out, nil
}

func (r *SettlementRepository) payments(ctx context.Context, bookingID uuid.UUID) ([]settlement.Payment, error) {
	query, args, err := psql.Select("method", "amount").
		From("settlement_payment_lines").
		Where(sq.Eq{"booking_id": bookingID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build payment lines query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.ClassifyPgErr("failed to load payment lines", err)
	}
	defer rows.Close()

	var out []settlement.Payment
	for rows.Next() {
		var (
			method string
			amount pgtype.Numeric
		)
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan payment line", err)
		}
		d, err := pgconv.DecimalFromNumeric(amount)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt payment amount", err)
		}
		out = append(out, settlement.Payment{Method: settlement.PaymentMethod(method), Amount: d})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("failed to iterate payment lines", err)
	}
	return out, nil
}

func (r *SettlementRepository) exec(ctx context.Context, ins sq.InsertBuilder, msg string) error {
	query, args, err := ins.ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, msg, err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.ClassifyPgErr(msg, err)
	}
	return nil
}
