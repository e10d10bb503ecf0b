package billing

import (
	"context"
	"log/slog"
	"os"

	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Catalog maps branches to plans and plans to features:
//
//	default_plan = "basic"
//
//	[plans.basic]
//	features = ["waitlist"]
//
//	[plans.pro]
//	features = ["waitlist", "waitlist_auto_book"]
//
//	[branches]
//	"6f1c...-..." = "pro"
type Catalog struct {
	DefaultPlan string            `toml:"default_plan"`
	Plans       map[string]Plan   `toml:"plans"`
	Branches    map[string]string `toml:"branches"`
}

type Plan struct {
	Features []string `toml:"features"`
}

func ParseCatalog(data string) (*Catalog, error) {
	var c Catalog
	meta, err := toml.Decode(data, &c)
	if err != nil {
		return nil, errs.Wrap(err, "failed to parse plan catalog")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errs.Newf("unknown plan catalog key %q", undecoded[0].String())
	}
	for branch, plan := range c.Branches {
		if _, err := uuid.Parse(branch); err != nil {
			return nil, errs.Newf("plan catalog: invalid branch id %q", branch)
		}
		if _, ok := c.Plans[plan]; !ok {
			return nil, errs.Newf("plan catalog: branch %s uses unknown plan %q", branch, plan)
		}
	}
	if c.DefaultPlan != "" {
		if _, ok := c.Plans[c.DefaultPlan]; !ok {
			return nil, errs.Newf("plan catalog: unknown default plan %q", c.DefaultPlan)
		}
	}
	return &c, nil
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to read plan catalog %s", path)
	}
	return ParseCatalog(string(data))
}

func (c *Catalog) planFor(branchID uuid.UUID) (Plan, bool) {
	name, ok := c.Branches[branchID.String()]
	if !ok {
		name = c.DefaultPlan
	}
	p, ok := c.Plans[name]
	return p, ok
}

// CatalogGate answers feature checks from a static plan catalog.
type CatalogGate struct {
	catalog *Catalog
	logger  *slog.Logger
}

func NewCatalogGate(catalog *Catalog, logger *slog.Logger) *CatalogGate {
	return &CatalogGate{catalog: catalog, logger: logger}
}

var _ shared.FeatureGate = (*CatalogGate)(nil)

func (g *CatalogGate) Allowed(_ context.Context, branchID uuid.UUID, feature shared.Feature) bool {
	plan, ok := g.catalog.planFor(branchID)
	if !ok {
		g.logger.Debug("branch has no plan", slog.String("branch_id", branchID.String()))
		return false
	}
	for _, f := range plan.Features {
		if shared.Feature(f) == feature {
			return true
		}
	}
	return false
}
