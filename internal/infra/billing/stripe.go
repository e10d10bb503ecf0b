package billing

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// FeaturesMetadataKey is the price metadata key listing comma-separated features.
const FeaturesMetadataKey = "features"

// SubscriptionSource returns the features granted by a branch's active subscriptions.
type SubscriptionSource interface {
	Features(ctx context.Context, branchID uuid.UUID) ([]string, error)
}

// StripeSource reads subscriptions of the Stripe customer whose metadata carries the
// branch id (customer metadata "branch_id").
type StripeSource struct {
	api *client.API
}

func NewStripeSource(secretKey string) *StripeSource {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeSource{api: api}
}

func (s *StripeSource) Features(ctx context.Context, branchID uuid.UUID) ([]string, error) {
	search := &stripe.CustomerSearchParams{
		SearchParams: stripe.SearchParams{
			Query:   "metadata['branch_id']:'" + branchID.String() + "'",
			Context: ctx,
		},
	}
	customers := s.api.Customers.Search(search)
	var customerID string
	if customers.Next() {
		customerID = customers.Customer().ID
	}
	if err := customers.Err(); err != nil {
		return nil, errs.Wrap(err, "stripe customer search failed")
	}
	if customerID == "" {
		return nil, nil
	}

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.AddExpand("data.items.data.price")

	var features []string
	subs := s.api.Subscriptions.List(params)
	for subs.Next() {
		sub := subs.Subscription()
		if sub.Items == nil {
			continue
		}
		for _, item := range sub.Items.Data {
			if item.Price == nil {
				continue
			}
			features = append(features, splitFeatures(item.Price.Metadata[FeaturesMetadataKey])...)
		}
	}
	if err := subs.Err(); err != nil {
		return nil, errs.Wrap(err, "stripe subscription list failed")
	}
	return features, nil
}

func splitFeatures(raw string) []string {
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type cachedFeatures struct {
	features  []string
	fetchedAt time.Time
}

// StripeGate caches subscription features per branch for a TTL. Lookup failures deny
// the feature and are not cached.
type StripeGate struct {
	source SubscriptionSource
	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger

	mu    sync.Mutex
	cache map[uuid.UUID]cachedFeatures
}

func NewStripeGate(source SubscriptionSource, ttl time.Duration, clock clock.Clock, logger *slog.Logger) *StripeGate {
	return &StripeGate{
		source: source,
		ttl:    ttl,
		clock:  clock,
		logger: logger,
		cache:  make(map[uuid.UUID]cachedFeatures),
	}
}

var _ shared.FeatureGate = (*StripeGate)(nil)

func (g *StripeGate) Allowed(ctx context.Context, branchID uuid.UUID, feature shared.Feature) bool {
	now := g.clock.Now()

	g.mu.Lock()
	entry, ok := g.cache[branchID]
	g.mu.Unlock()

	if !ok || now.Sub(entry.fetchedAt) >= g.ttl {
		features, err := g.source.Features(ctx, branchID)
		if err != nil {
			g.logger.Warn("billing lookup failed; feature denied",
				slog.String("branch_id", branchID.String()),
				slog.String("feature", string(feature)),
				slog.String("error", err.Error()))
			return false
		}
		entry = cachedFeatures{features: features, fetchedAt: now}
		g.mu.Lock()
		g.cache[branchID] = entry
		g.mu.Unlock()
	}

	return slices.Contains(entry.features, string(feature))
}
