package repository

import (
	"booking-engine/internal/domain/window"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func timestamptz(w window.Window) (pgtype.Timestamptz, pgtype.Timestamptz) {
	return pgtype.Timestamptz{Time: w.From(), Valid: true}, pgtype.Timestamptz{Time: w.To(), Valid: true}
}
