// AngelaMos | 2026
// ledger.go

package credits

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/angelamos/logoforge/internal/config"
)

// checkAndDecrement seeds the balance on first touch, then performs the
// gate and the decrement in one round trip. Running it as a script closes
// the read-modify-write race between concurrent requests from one user.
var checkAndDecrementScript = redis.NewScript(`
local balance = redis.call('GET', KEYS[1])
if not balance then
	balance = tonumber(ARGV[1])
	redis.call('SET', KEYS[1], balance)
else
	balance = tonumber(balance)
end
if balance <= 0 then
	return {0, balance}
end
balance = redis.call('DECRBY', KEYS[1], 1)
return {1, balance}
`)

var balanceScript = redis.NewScript(`
local balance = redis.call('GET', KEYS[1])
if not balance then
	redis.call('SET', KEYS[1], ARGV[1])
	return tonumber(ARGV[1])
end
return tonumber(balance)
`)

type Decision struct {
	Allowed   bool
	Remaining int
}

type Ledger struct {
	rdb *redis.Client
	cfg config.CreditsConfig
}

func NewLedger(rdb *redis.Client, cfg config.CreditsConfig) *Ledger {
	return &Ledger{rdb: rdb, cfg: cfg}
}

func (l *Ledger) key(userID string) string {
	return l.cfg.Namespace + ":" + userID
}

// seedFor returns the starting balance for a user whose ledger entry does
// not exist yet. Accounts carrying the historical flat grant migrate at the
// legacy amount, everyone else starts at the default grant.
func (l *Ledger) seedFor(legacyGrant bool) int {
	if legacyGrant {
		return l.cfg.LegacyGrant
	}
	return l.cfg.DefaultGrant
}

// CheckAndDecrement consumes one credit if any remain. A store error denies
// the request; it never falls through to a free generation.
func (l *Ledger) CheckAndDecrement(
	ctx context.Context,
	userID string,
	legacyGrant bool,
) (Decision, error) {
	res, err := checkAndDecrementScript.Run(
		ctx,
		l.rdb,
		[]string{l.key(userID)},
		l.seedFor(legacyGrant),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("check and decrement: %w", err)
	}

	if len(res) != 2 {
		return Decision{}, fmt.Errorf(
			"check and decrement: unexpected script result length %d",
			len(res),
		)
	}

	return Decision{
		Allowed:   res[0] == 1,
		Remaining: int(res[1]),
	}, nil
}

// Balance reads the current balance, seeding it on first touch.
func (l *Ledger) Balance(
	ctx context.Context,
	userID string,
	legacyGrant bool,
) (int, error) {
	balance, err := balanceScript.Run(
		ctx,
		l.rdb,
		[]string{l.key(userID)},
		l.seedFor(legacyGrant),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}

	return balance, nil
}

// Add credits a purchased bundle or bonus onto the balance.
func (l *Ledger) Add(ctx context.Context, userID string, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("add credits: amount must be positive, got %d", n)
	}

	balance, err := l.rdb.IncrBy(ctx, l.key(userID), int64(n)).Result()
	if err != nil {
		return 0, fmt.Errorf("add credits: %w", err)
	}

	return int(balance), nil
}

// Refund returns a single consumed credit after a failed generation.
func (l *Ledger) Refund(ctx context.Context, userID string) (int, error) {
	balance, err := l.rdb.Incr(ctx, l.key(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("refund credit: %w", err)
	}

	return int(balance), nil
}
