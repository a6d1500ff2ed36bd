package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/testutil"
)

func setupRenewalWorker(t *testing.T, schedule string, clock domain.Clock) (*RenewalWorker, *ledger.SubscriptionLedger, *testutil.MockEventPublisher) {
	t.Helper()
	svc, subs, _, publisher := setupRenewalService(t)

	worker, err := NewRenewalWorker(svc, zerolog.Nop(), RenewalWorkerConfig{
		Schedule: schedule,
		Clock:    clock,
	})
	require.NoError(t, err)
	return worker, subs, publisher
}

func TestRenewalWorker_NewRenewalWorker(t *testing.T) {
	worker, _, _ := setupRenewalWorker(t, "", nil)

	assert.NotNil(t, worker)
	assert.Equal(t, DefaultRenewalSchedule, worker.schedule)
	assert.NotNil(t, worker.clock)
	assert.False(t, worker.IsRunning())
}

func TestRenewalWorker_InvalidSchedule(t *testing.T) {
	svc, _, _, _ := setupRenewalService(t)

	worker, err := NewRenewalWorker(svc, zerolog.Nop(), RenewalWorkerConfig{Schedule: "every tuesday"})
	require.Error(t, err)
	assert.Nil(t, worker)
	assert.Contains(t, err.Error(), "every tuesday")
}

func TestRenewalWorker_RunOnceUsesClock(t *testing.T) {
	clock := testutil.NewMutableClock(testNow)
	worker, subs, publisher := setupRenewalWorker(t, "@daily", clock.Now)
	sub := addSubscriptionAt(t, subs, "Monthly", domain.BillingMonthly, domain.NewDate(2024, 6, 10))

	result := worker.RunOnce(context.Background())
	require.NotNil(t, result)
	assert.Empty(t, result.Renewed)

	// Two months later the July date is stale
	clock.Advance(66 * 24 * time.Hour)
	result = worker.RunOnce(context.Background())
	require.NotNil(t, result)
	require.Len(t, result.Renewed, 1)
	assert.Equal(t, sub.ID, result.Renewed[0].ID)
	assert.True(t, domain.NewDate(2024, 8, 15).Equal(result.Today), "got %s", result.Today)
	assert.Equal(t, []string{"subscription.renewed"}, publisher.Types())
}

func TestRenewalWorker_StartStop(t *testing.T) {
	late := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	worker, subs, publisher := setupRenewalWorker(t, "@daily", testutil.FixedClock(late))
	addSubscriptionAt(t, subs, "Monthly", domain.BillingMonthly, domain.NewDate(2024, 6, 10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	assert.True(t, worker.IsRunning())

	// Start runs a pass straight away
	assert.Eventually(t, func() bool {
		return len(publisher.Types()) == 1
	}, time.Second, 10*time.Millisecond)

	worker.Stop()
	assert.False(t, worker.IsRunning())
}

func TestRenewalWorker_DoubleStartAndStop(t *testing.T) {
	worker, _, _ := setupRenewalWorker(t, "@daily", testutil.FixedClock(testNow))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	worker.Start(ctx)
	assert.True(t, worker.IsRunning())

	worker.Stop()
	worker.Stop()
	assert.False(t, worker.IsRunning())
}

func TestRenewalWorker_StopWithoutStart(t *testing.T) {
	worker, _, _ := setupRenewalWorker(t, "@daily", testutil.FixedClock(testNow))

	worker.Stop()
	assert.False(t, worker.IsRunning())
}
