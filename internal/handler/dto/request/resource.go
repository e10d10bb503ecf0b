package request

import (
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateResourceRequest struct {
	BranchID      uuid.UUID `json:"branch_id" binding:"required"`
	Name          string    `json:"name" binding:"required"`
	TotalQuantity int       `json:"total_quantity" binding:"required,min=1"`
}

func (r CreateResourceRequest) ToInput() commands.CreateResourceInput {
	return commands.CreateResourceInput{
		BranchID:      r.BranchID,
		Name:          strings.TrimSpace(r.Name),
		TotalQuantity: r.TotalQuantity,
	}
}

type UpdateResourceRequest struct {
	Name          *string `json:"name,omitempty"`
	TotalQuantity *int    `json:"total_quantity,omitempty" binding:"omitempty,min=1"`
}

func (r UpdateResourceRequest) ToInput() commands.UpdateResourceInput {
	in := commands.UpdateResourceInput{TotalQuantity: r.TotalQuantity}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		in.Name = &name
	}
	return in
}

type ListResourcesQuery struct {
	BranchID string `form:"branch_id" binding:"required"`
}

type OccupancyQuery struct {
	BranchID string `form:"branch_id" binding:"required"`
	Kind     string `form:"kind" binding:"required,oneof=staff resource"`
	ID       string `form:"id" binding:"required"`
	From     string `form:"from" binding:"required"`
	To       string `form:"to" binding:"required"`
}

func (q OccupancyQuery) ToDomain() (uuid.UUID, availability.Ref, window.Window, error) {
	branchID, err := uuid.Parse(q.BranchID)
	if err != nil {
		return uuid.Nil, availability.Ref{}, window.Window{}, err
	}
	id, err := uuid.Parse(q.ID)
	if err != nil {
		return uuid.Nil, availability.Ref{}, window.Window{}, err
	}
	from, err := time.Parse(time.RFC3339, q.From)
	if err != nil {
		return uuid.Nil, availability.Ref{}, window.Window{}, err
	}
	to, err := time.Parse(time.RFC3339, q.To)
	if err != nil {
		return uuid.Nil, availability.Ref{}, window.Window{}, err
	}
	w, err := window.New(from, to)
	if err != nil {
		return uuid.Nil, availability.Ref{}, window.Window{}, err
	}

	ref := availability.Resource(id)
	if availability.Kind(q.Kind) == availability.KindStaff {
		ref = availability.Staff(id)
	}
	return branchID, ref, w, nil
}
