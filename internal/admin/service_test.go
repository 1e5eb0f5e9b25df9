// AngelaMos | 2026
// service_test.go

package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/history"
)

type fakeUserStats struct {
	total  int
	active int
	nnew   int

	gotActiveCutoff  time.Time
	gotCreatedCutoff time.Time
}

func (f *fakeUserStats) CountTotal(_ context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeUserStats) CountActiveSince(
	_ context.Context,
	cutoff time.Time,
) (int, error) {
	f.gotActiveCutoff = cutoff
	return f.active, nil
}

func (f *fakeUserStats) CountCreatedSince(
	_ context.Context,
	cutoff time.Time,
) (int, error) {
	f.gotCreatedCutoff = cutoff
	return f.nnew, nil
}

type fakeLogoReader struct {
	total   int
	recent  []history.RecordSummary
	byUser  map[string][]history.Record
	gotUser string
}

func (f *fakeLogoReader) CountAll(_ context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeLogoReader) ListRecent(
	_ context.Context,
	_ int,
) ([]history.RecordSummary, error) {
	return f.recent, nil
}

func (f *fakeLogoReader) List(
	_ context.Context,
	userID string,
) ([]history.Record, error) {
	f.gotUser = userID
	return f.byUser[userID], nil
}

func TestStartOfDay(t *testing.T) {
	noon := time.Date(2026, 3, 14, 12, 30, 45, 0, time.UTC)
	assert.Equal(
		t,
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartOfDay(noon),
	)

	// Exactly midnight stays on the same day.
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, midnight, StartOfDay(midnight))

	// One millisecond before midnight belongs to the previous day.
	justBefore := midnight.Add(-time.Millisecond)
	assert.Equal(
		t,
		time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		StartOfDay(justBefore),
	)
}

func TestStartOfDay_NormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2026, 3, 14, 2, 0, 0, 0, zone)

	// 02:00 UTC+5 is 21:00 UTC the previous day.
	assert.Equal(
		t,
		time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		StartOfDay(local),
	)
}

func TestDashboard(t *testing.T) {
	email := "owner@example.com"
	users := &fakeUserStats{total: 40, active: 7, nnew: 3}
	logos := &fakeLogoReader{
		total: 120,
		recent: []history.RecordSummary{
			{ID: "logo-1", UserEmail: &email, CompanyName: "Acme", Status: history.StatusSuccess},
			{ID: "logo-2", CompanyName: "Demo Co", Status: history.StatusFailed},
		},
	}

	svc := NewService(users, logos)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	}

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, stats.TotalUsers)
	assert.Equal(t, 7, stats.ActiveUsersToday)
	assert.Equal(t, 3, stats.NewUsersToday)
	assert.Equal(t, 120, stats.TotalLogos)

	wantCutoff := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantCutoff, users.gotActiveCutoff)
	assert.Equal(t, wantCutoff, users.gotCreatedCutoff)

	require.Len(t, stats.RecentLogos, 2)
	assert.Equal(t, "owner@example.com", stats.RecentLogos[0].UserEmail)
	assert.Empty(t, stats.RecentLogos[1].UserEmail)
}

func TestUserLogos(t *testing.T) {
	owner := "user-1"
	logos := &fakeLogoReader{
		byUser: map[string][]history.Record{
			"user-1": {{ID: "logo-1", UserID: &owner}},
		},
	}

	svc := NewService(&fakeUserStats{}, logos)

	records, err := svc.UserLogos(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "logo-1", records[0].ID)
	assert.Equal(t, "user-1", logos.gotUser)
}
