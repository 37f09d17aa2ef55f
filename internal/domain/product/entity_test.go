//go:build unit

package product_test

import (
	"testing"

	"parkgate/internal/domain/product"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAllocations(t *testing.T, online, ota, onsite int) product.ChannelAllocations {
	t.Helper()
	a, err := product.NewChannelAllocations(online, ota, onsite)
	require.NoError(t, err)
	return a
}

func TestNewProduct(t *testing.T) {
	cases := []struct {
		name        string
		productName string
		cap         int
		allocations product.ChannelAllocations
		errIs       error
	}{
		{
			name:        "valid product",
			productName: "day pass",
			cap:         100,
			allocations: product.ChannelAllocations{Online: 60, OTA: 30, Onsite: 10},
		},
		{
			name:        "allocations may undersubscribe the cap",
			productName: "day pass",
			cap:         100,
			allocations: product.ChannelAllocations{Online: 10},
		},
		{
			name:        "empty name",
			productName: "",
			cap:         100,
			allocations: product.ChannelAllocations{},
			errIs:       product.ErrEmptyName,
		},
		{
			name:        "negative cap",
			productName: "day pass",
			cap:         -1,
			allocations: product.ChannelAllocations{},
			errIs:       product.ErrInvalidCap,
		},
		{
			name:        "quotas may oversubscribe the cap",
			productName: "day pass",
			cap:         50,
			allocations: product.ChannelAllocations{Online: 40, OTA: 40, Onsite: 40},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := product.NewProduct(c.productName, c.cap, c.allocations)

			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				require.Nil(t, p)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.NotEqual(t, uuid.Nil, p.ID())
			assert.True(t, p.IsActive())
		})
	}
}

func TestNewChannelAllocations(t *testing.T) {
	_, err := product.NewChannelAllocations(1, -1, 0)
	require.ErrorIs(t, err, product.ErrInvalidAllocation)

	a, err := product.NewChannelAllocations(3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, a.Total())
}

func TestProductAdjustCaps(t *testing.T) {
	usage := product.Usage{
		Online: product.ChannelCounters{Sold: 10, Held: 5},
		OTA:    product.ChannelCounters{Sold: 3},
	}

	newProduct := func(t *testing.T) *product.Product {
		t.Helper()
		p, err := product.NewProduct("day pass", 100, mustAllocations(t, 60, 30, 10))
		require.NoError(t, err)
		return p
	}

	t.Run("grows and shrinks above current usage", func(t *testing.T) {
		p := newProduct(t)

		require.NoError(t, p.AdjustCaps(40, mustAllocations(t, 20, 15, 5), usage))

		assert.Equal(t, 40, p.SellableCap())
		assert.Equal(t, 20, p.Allocations().Online)
	})

	t.Run("cap below committed and held units", func(t *testing.T) {
		p := newProduct(t)

		err := p.AdjustCaps(17, mustAllocations(t, 15, 2, 0), usage)

		require.ErrorIs(t, err, product.ErrCapBelowInUse)
		assert.Equal(t, 100, p.SellableCap())
	})

	t.Run("channel quota below channel usage", func(t *testing.T) {
		p := newProduct(t)

		err := p.AdjustCaps(50, mustAllocations(t, 14, 30, 6), usage)

		require.ErrorIs(t, err, product.ErrQuotaBelowInUse)
	})

	t.Run("quotas may oversubscribe the new cap", func(t *testing.T) {
		p := newProduct(t)

		require.NoError(t, p.AdjustCaps(20, mustAllocations(t, 20, 15, 5), usage))

		assert.Equal(t, 20, p.SellableCap())
		assert.Equal(t, 40, p.Allocations().Total())
	})

	t.Run("negative cap", func(t *testing.T) {
		p := newProduct(t)

		require.ErrorIs(t, p.AdjustCaps(-1, product.ChannelAllocations{}, usage), product.ErrInvalidCap)
	})
}

func TestProductStatus(t *testing.T) {
	p, err := product.NewProduct("day pass", 10, product.ChannelAllocations{Online: 10})
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.IsActive())

	p.Activate()
	assert.True(t, p.IsActive())
}
