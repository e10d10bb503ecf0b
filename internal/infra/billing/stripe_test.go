//go:build unit

package billing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSubscriptionSource struct {
	mock.Mock
}

func (m *MockSubscriptionSource) Features(ctx context.Context, branchID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, branchID)
	features, _ := args.Get(0).([]string)
	return features, args.Error(1)
}

func TestSplitFeatures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "waitlist", []string{"waitlist"}},
		{"spaces and blanks", " waitlist , ,waitlist_auto_book ", []string{"waitlist", "waitlist_auto_book"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitFeatures(tt.raw))
		})
	}
}

func TestStripeGate(t *testing.T) {
	branchID := uuid.New()
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		features []string
		err      error
		feature  shared.Feature
		want     bool
	}{
		{
			name:     "subscribed",
			features: []string{"waitlist", "waitlist_auto_book"},
			feature:  shared.FeatureWaitlistAutoBook,
			want:     true,
		},
		{
			name:     "not subscribed",
			features: []string{"waitlist"},
			feature:  shared.FeatureWaitlistAutoBook,
			want:     false,
		},
		{
			name:    "no customer",
			feature: shared.FeatureWaitlist,
			want:    false,
		},
		{
			name:    "provider failure denies",
			err:     assert.AnError,
			feature: shared.FeatureWaitlist,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockSubscriptionSource)
			source.On("Features", mock.Anything, branchID).Return(tt.features, tt.err)
			gate := NewStripeGate(source, time.Minute, clock.NewMockClock(start), slog.New(slog.DiscardHandler))

			assert.Equal(t, tt.want, gate.Allowed(context.Background(), branchID, tt.feature))
			source.AssertExpectations(t)
		})
	}
}

func TestStripeGate_Cache(t *testing.T) {
	branchID := uuid.New()
	clk := clock.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	t.Run("hits within ttl", func(t *testing.T) {
		source := new(MockSubscriptionSource)
		source.On("Features", mock.Anything, branchID).Return([]string{"waitlist"}, nil).Twice()
		gate := NewStripeGate(source, time.Minute, clk, slog.New(slog.DiscardHandler))

		assert.True(t, gate.Allowed(ctx, branchID, shared.FeatureWaitlist))
		clk.Advance(30 * time.Second)
		assert.False(t, gate.Allowed(ctx, branchID, shared.FeatureWaitlistAutoBook))
		source.AssertNumberOfCalls(t, "Features", 1)

		clk.Advance(30 * time.Second)
		assert.True(t, gate.Allowed(ctx, branchID, shared.FeatureWaitlist))
		source.AssertNumberOfCalls(t, "Features", 2)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		source := new(MockSubscriptionSource)
		source.On("Features", mock.Anything, branchID).Return(nil, assert.AnError).Once()
		source.On("Features", mock.Anything, branchID).Return([]string{"waitlist"}, nil).Once()
		gate := NewStripeGate(source, time.Minute, clk, slog.New(slog.DiscardHandler))

		assert.False(t, gate.Allowed(ctx, branchID, shared.FeatureWaitlist))
		assert.True(t, gate.Allowed(ctx, branchID, shared.FeatureWaitlist))
		source.AssertExpectations(t)
	})
}
