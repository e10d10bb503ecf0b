package request

import (
	"time"

	"booking-engine/internal/domain/window"
)

type WindowRequest struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

func (w WindowRequest) ToDomain() (window.Window, error) {
	return window.New(w.From, w.To)
}
