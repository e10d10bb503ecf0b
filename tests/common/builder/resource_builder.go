//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/resource"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	BranchID      uuid.UUID
	Name          string
	TotalQuantity int
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		BranchID:      uuid.New(),
		Name:          "Treatment room",
		TotalQuantity: 1,
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

func (r *ResourceBuilder) BuildDomain(now time.Time) (*resource.Resource, error) {
	return resource.NewResource(r.BranchID, r.Name, r.TotalQuantity, now)
}

func (r *ResourceBuilder) BuildCreateInput() commands.CreateResourceInput {
	return commands.CreateResourceInput{BranchID: r.BranchID, Name: r.Name, TotalQuantity: r.TotalQuantity}
}

func (r *ResourceBuilder) BuildCreateRequestDTO() reqdto.CreateResourceRequest {
	return reqdto.CreateResourceRequest{BranchID: r.BranchID, Name: r.Name, TotalQuantity: r.TotalQuantity}
}
