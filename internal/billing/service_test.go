// AngelaMos | 2026
// service_test.go

package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/angelamos/logoforge/internal/config"
)

const testSecret = "whsec_test"

type fakeSink struct {
	added   map[string]int
	addErr  error
	balance int
}

func (f *fakeSink) Add(_ context.Context, userID string, n int) (int, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	if f.added == nil {
		f.added = map[string]int{}
	}
	f.added[userID] += n
	return f.balance, nil
}

type fakeAccounts struct {
	mirrored map[string]int
}

func (f *fakeAccounts) MirrorCredits(
	_ context.Context,
	userID string,
	balance int,
) error {
	if f.mirrored == nil {
		f.mirrored = map[string]int{}
	}
	f.mirrored[userID] = balance
	return nil
}

type billingFixture struct {
	svc      *Service
	sink     *fakeSink
	accounts *fakeAccounts
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &billingFixture{
		sink:     &fakeSink{balance: 125},
		accounts: &fakeAccounts{},
	}

	f.svc = NewService(
		f.sink,
		f.accounts,
		rdb,
		config.StripeConfig{WebhookSecret: testSecret},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return f
}

// signPayload produces a Stripe-Signature header the verifier accepts.
func signPayload(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutEvent(sessionID, userID, packageID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"object": "checkout.session",
				"client_reference_id": %q,
				"metadata": {"package_id": %q}
			}
		}
	}`, stripe.APIVersion, sessionID, userID, packageID))
}

func TestHandleEvent_BadSignature(t *testing.T) {
	f := newBillingFixture(t)

	payload := checkoutEvent("cs_1", "user-1", "growth")

	err := f.svc.HandleEvent(context.Background(), payload, "t=1,v1=deadbeef")
	require.ErrorIs(t, err, ErrBadSignature)

	assert.Empty(t, f.sink.added)
}

func TestHandleEvent_CheckoutCompletedAddsBundle(t *testing.T) {
	f := newBillingFixture(t)

	payload := checkoutEvent("cs_1", "user-1", "growth")

	err := f.svc.HandleEvent(context.Background(), payload, signPayload(payload))
	require.NoError(t, err)

	assert.Equal(t, 100, f.sink.added["user-1"])
	assert.Equal(t, 125, f.accounts.mirrored["user-1"])
}

func TestHandleEvent_RedeliveryAppliesOnce(t *testing.T) {
	f := newBillingFixture(t)

	payload := checkoutEvent("cs_1", "user-1", "starter")

	require.NoError(
		t,
		f.svc.HandleEvent(context.Background(), payload, signPayload(payload)),
	)
	require.NoError(
		t,
		f.svc.HandleEvent(context.Background(), payload, signPayload(payload)),
	)

	assert.Equal(t, 25, f.sink.added["user-1"])
}

func TestHandleEvent_LedgerFailureReleasesIdempotencyClaim(t *testing.T) {
	f := newBillingFixture(t)
	f.sink.addErr = fmt.Errorf("redis down")

	payload := checkoutEvent("cs_1", "user-1", "starter")

	err := f.svc.HandleEvent(context.Background(), payload, signPayload(payload))
	require.Error(t, err)

	// The retry succeeds once the ledger recovers.
	f.sink.addErr = nil
	require.NoError(
		t,
		f.svc.HandleEvent(context.Background(), payload, signPayload(payload)),
	)
	assert.Equal(t, 25, f.sink.added["user-1"])
}

func TestHandleEvent_UnknownPackageAcked(t *testing.T) {
	f := newBillingFixture(t)

	payload := checkoutEvent("cs_1", "user-1", "mega")

	err := f.svc.HandleEvent(context.Background(), payload, signPayload(payload))
	require.NoError(t, err)

	assert.Empty(t, f.sink.added)
}

func TestHandleEvent_MissingUserAcked(t *testing.T) {
	f := newBillingFixture(t)

	payload := checkoutEvent("cs_1", "", "starter")

	err := f.svc.HandleEvent(context.Background(), payload, signPayload(payload))
	require.NoError(t, err)

	assert.Empty(t, f.sink.added)
}

func TestHandleEvent_UnhandledTypeAcked(t *testing.T) {
	f := newBillingFixture(t)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_2",
		"api_version": %q,
		"type": "invoice.paid",
		"data": {"object": {}}
	}`, stripe.APIVersion))

	err := f.svc.HandleEvent(context.Background(), payload, signPayload(payload))
	require.NoError(t, err)

	assert.Empty(t, f.sink.added)
}

func TestPackageByID(t *testing.T) {
	pkg, ok := PackageByID("studio")
	require.True(t, ok)
	assert.Equal(t, 300, pkg.Credits)

	_, ok = PackageByID("missing")
	assert.False(t, ok)
}
