// AngelaMos | 2026
// ledger_test.go

package credits

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/config"
)

func newTestLedger(t *testing.T) (*Ledger, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ledger := NewLedger(rdb, config.CreditsConfig{
		Namespace:    "credits",
		DefaultGrant: 30,
		LegacyGrant:  150,
		SignupBonus:  5,
	})

	return ledger, mr
}

func TestCheckAndDecrement_SeedsDefaultGrant(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	dec, err := ledger.CheckAndDecrement(ctx, "user-1", false)
	require.NoError(t, err)

	assert.True(t, dec.Allowed)
	assert.Equal(t, 29, dec.Remaining)
}

func TestCheckAndDecrement_SeedsLegacyGrant(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	dec, err := ledger.CheckAndDecrement(ctx, "user-legacy", true)
	require.NoError(t, err)

	assert.True(t, dec.Allowed)
	assert.Equal(t, 149, dec.Remaining)
}

func TestCheckAndDecrement_ConsumesExactlyOne(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	for want := 29; want >= 27; want-- {
		dec, err := ledger.CheckAndDecrement(ctx, "user-2", false)
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
		assert.Equal(t, want, dec.Remaining)
	}

	balance, err := ledger.Balance(ctx, "user-2", false)
	require.NoError(t, err)
	assert.Equal(t, 27, balance)
}

func TestCheckAndDecrement_DeniesAtZero(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	mr.Set("credits:user-3", "0")

	dec, err := ledger.CheckAndDecrement(ctx, "user-3", false)
	require.NoError(t, err)

	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)

	// A denied request must not touch the balance.
	balance, err := ledger.Balance(ctx, "user-3", false)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestCheckAndDecrement_StoreErrorDenies(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	mr.Close()

	dec, err := ledger.CheckAndDecrement(ctx, "user-4", false)
	require.Error(t, err)
	assert.False(t, dec.Allowed)
}

func TestAdd(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	mr.Set("credits:user-5", "10")

	balance, err := ledger.Add(ctx, "user-5", 25)
	require.NoError(t, err)
	assert.Equal(t, 35, balance)
}

func TestAdd_RejectsNonPositive(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Add(ctx, "user-6", 0)
	require.Error(t, err)

	_, err = ledger.Add(ctx, "user-6", -3)
	require.Error(t, err)
}

func TestRefund(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	mr.Set("credits:user-7", "4")

	balance, err := ledger.Refund(ctx, "user-7")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
}

func TestBalance_SeedsOnFirstRead(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	balance, err := ledger.Balance(ctx, "user-8", false)
	require.NoError(t, err)
	assert.Equal(t, 30, balance)

	balance, err = ledger.Balance(ctx, "user-9", true)
	require.NoError(t, err)
	assert.Equal(t, 150, balance)
}
