//go:build unit

package commands_test

import (
	"testing"
	"time"

	"parkgate/internal/domain/product"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/testutil"

	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestEnv() (*testutil.MemStore, *clock.MockClock, config.Config) {
	return testutil.NewMemStore(), clock.NewMockClock(testStart), config.NewTestConfig()
}

func seedProduct(t *testing.T, store *testutil.MemStore, cap, online, ota, onsite int) *product.Product {
	t.Helper()
	allocations, err := product.NewChannelAllocations(online, ota, onsite)
	require.NoError(t, err)
	p, err := product.NewProduct("day pass", cap, allocations)
	require.NoError(t, err)
	store.SeedProduct(p)
	return p
}
