package response

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

type ResourceResponse struct {
	ID            uuid.UUID `json:"id"`
	BranchID      uuid.UUID `json:"branch_id"`
	Name          string    `json:"name"`
	TotalQuantity int       `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromResource(r *resource.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:            r.ID(),
		BranchID:      r.BranchID(),
		Name:          r.Name(),
		TotalQuantity: r.TotalQuantity(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func FromResources(rs []*resource.Resource) []*ResourceResponse {
	res := make([]*ResourceResponse, len(rs))
	for i, r := range rs {
		res[i] = FromResource(r)
	}
	return res
}

type OccupancyResponse struct {
	Kind     string         `json:"kind"`
	ID       uuid.UUID      `json:"id"`
	Window   WindowResponse `json:"window"`
	Used     int            `json:"used"`
	Capacity int            `json:"capacity"`
	Free     bool           `json:"free"`
}

func FromOccupancy(ref availability.Ref, w window.Window, occ availability.Occupancy) *OccupancyResponse {
	return &OccupancyResponse{
		Kind:     string(ref.Kind),
		ID:       ref.ID,
		Window:   FromWindow(w),
		Used:     occ.Used,
		Capacity: occ.Capacity,
		Free:     occ.Free(),
	}
}
