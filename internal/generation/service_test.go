// AngelaMos | 2026
// service_test.go

package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/config"
	"github.com/angelamos/logoforge/internal/core"
	"github.com/angelamos/logoforge/internal/credits"
	"github.com/angelamos/logoforge/internal/history"
)

type fakeGenerator struct {
	images []string
	err    error
	calls  int

	gotPrompt string
	gotCount  int
	gotKey    string
}

func (f *fakeGenerator) Generate(
	_ context.Context,
	prompt string,
	count int,
	apiKeyOverride string,
) ([]string, error) {
	f.calls++
	f.gotPrompt = prompt
	f.gotCount = count
	f.gotKey = apiKeyOverride
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

type fakeGate struct {
	decision credits.Decision
	checkErr error
	checks   int
	refunds  int

	refundBalance int
}

func (f *fakeGate) CheckAndDecrement(
	_ context.Context,
	_ string,
	_ bool,
) (credits.Decision, error) {
	f.checks++
	return f.decision, f.checkErr
}

func (f *fakeGate) Refund(_ context.Context, _ string) (int, error) {
	f.refunds++
	return f.refundBalance, nil
}

type fakeAccounts struct {
	legacy    bool
	legacyErr error
	mirrored  []int
	touched   int
}

func (f *fakeAccounts) HasLegacyGrant(_ context.Context, _ string) (bool, error) {
	return f.legacy, f.legacyErr
}

func (f *fakeAccounts) MirrorCredits(_ context.Context, _ string, balance int) error {
	f.mirrored = append(f.mirrored, balance)
	return nil
}

func (f *fakeAccounts) TouchGeneration(_ context.Context, _, _ string) error {
	f.touched++
	return nil
}

type fakeWriter struct {
	records []*history.Record
}

func (f *fakeWriter) Enqueue(record *history.Record) bool {
	f.records = append(f.records, record)
	return true
}

type serviceFixture struct {
	svc       *Service
	generator *fakeGenerator
	gate      *fakeGate
	accounts  *fakeAccounts
	writer    *fakeWriter
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		generator: &fakeGenerator{images: []string{"img-a", "img-b"}},
		gate:      &fakeGate{decision: credits.Decision{Allowed: true, Remaining: 29}},
		accounts:  &fakeAccounts{},
		writer:    &fakeWriter{},
	}

	f.svc = NewService(
		f.generator,
		f.gate,
		f.accounts,
		f.writer,
		config.GenerationConfig{MaxImages: 6, DemoEnabled: true},
		"flux-test",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return f
}

func validRequest() GenerateRequest {
	return GenerateRequest{
		CompanyName:             "Acme",
		SelectedLayout:          "solo",
		SelectedStyle:           "tech",
		SelectedPrimaryColor:    "blue",
		SelectedBackgroundColor: "white",
		NumberOfImages:          2,
	}
}

func TestGenerate_Success(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.svc.Generate(context.Background(), "user-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"img-a", "img-b"}, res.Images)
	require.NotNil(t, res.RemainingCredits)
	assert.Equal(t, 29, *res.RemainingCredits)
	assert.Equal(t, "flux-test", res.ModelUsed)

	assert.Equal(t, 1, f.gate.checks)
	assert.Equal(t, 0, f.gate.refunds)
	assert.Equal(t, 1, f.accounts.touched)
	assert.Equal(t, []int{29}, f.accounts.mirrored)

	require.Len(t, f.writer.records, 1)
	rec := f.writer.records[0]
	assert.Equal(t, history.StatusSuccess, rec.Status)
	require.NotNil(t, rec.UserID)
	assert.Equal(t, "user-1", *rec.UserID)
	assert.Equal(t, history.ImageList{"img-a", "img-b"}, rec.Images)
}

func TestGenerate_QuotaExhausted(t *testing.T) {
	f := newServiceFixture(t)
	f.gate.decision = credits.Decision{Allowed: false, Remaining: 0}

	_, err := f.svc.Generate(context.Background(), "user-1", validRequest())
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Status)

	assert.Equal(t, 0, f.generator.calls)
	assert.Empty(t, f.writer.records)
}

func TestGenerate_GateErrorDeniesRatherThanGrants(t *testing.T) {
	f := newServiceFixture(t)
	f.gate.checkErr = errors.New("redis down")

	_, err := f.svc.Generate(context.Background(), "user-1", validRequest())
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)

	assert.Equal(t, 0, f.generator.calls)
}

func TestGenerate_FailureRefundsAndRecords(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.err = errors.New("upstream timeout")
	f.gate.refundBalance = 30

	res, err := f.svc.Generate(context.Background(), "user-1", validRequest())
	require.Error(t, err)
	assert.Nil(t, res)

	assert.Equal(t, 1, f.gate.refunds)

	require.Len(t, f.writer.records, 1)
	rec := f.writer.records[0]
	assert.Equal(t, history.StatusFailed, rec.Status)
	assert.Nil(t, rec.Images)
	require.NotNil(t, rec.ErrorMessage)
	assert.Contains(t, *rec.ErrorMessage, "upstream timeout")
}

func TestGenerate_ProviderUnauthorizedMapsTo401(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.err = ErrProviderUnauthorized

	_, err := f.svc.Generate(context.Background(), "user-1", validRequest())
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Your API key is invalid.", appErr.Message)
}

func TestGenerate_ProviderForbiddenMapsTo403(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.err = ErrProviderForbidden

	_, err := f.svc.Generate(context.Background(), "user-1", validRequest())
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestGenerate_BYOKBypassesGate(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest()
	req.UserAPIKey = "caller-key"

	res, err := f.svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.Equal(t, 0, f.gate.checks)
	assert.Nil(t, res.RemainingCredits)
	assert.Equal(t, "caller-key", f.generator.gotKey)
}

func TestGenerate_DemoBypassesGate(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.svc.Generate(context.Background(), "", validRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, f.gate.checks)
	assert.Equal(t, 0, f.accounts.touched)
	assert.Nil(t, res.RemainingCredits)

	require.Len(t, f.writer.records, 1)
	assert.Nil(t, f.writer.records[0].UserID)
}

func TestGenerate_DemoDisabled(t *testing.T) {
	f := newServiceFixture(t)
	f.svc.cfg.DemoEnabled = false

	_, err := f.svc.Generate(context.Background(), "", validRequest())
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestGenerate_TooManyImages(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest()
	req.NumberOfImages = 7

	_, err := f.svc.Generate(context.Background(), "user-1", req)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, 0, f.gate.checks)
}

func TestGenerate_UnknownStyleRejectedBeforeGate(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest()
	req.SelectedStyle = "vaporwave"

	_, err := f.svc.Generate(context.Background(), "user-1", req)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	assert.Equal(t, 0, f.gate.checks)
	assert.Equal(t, 0, f.generator.calls)
}
