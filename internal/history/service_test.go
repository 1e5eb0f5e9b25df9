// AngelaMos | 2026
// service_test.go

package history

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/config"
	"github.com/angelamos/logoforge/internal/core"
)

// memoryRepo backs the service tests without a database.
type memoryRepo struct {
	records   []*Record
	createErr error
}

func (m *memoryRepo) Create(_ context.Context, record *Record) error {
	if m.createErr != nil {
		return m.createErr
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memoryRepo) ListByUser(
	_ context.Context,
	userID string,
	limit int,
) ([]Record, error) {
	var out []Record
	for _, r := range m.records {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) ClaimDemoRecords(
	_ context.Context,
	userID string,
	cutoff time.Time,
) (int64, error) {
	var claimed int64
	for _, r := range m.records {
		if r.UserID == nil && !r.CreatedAt.Before(cutoff) {
			id := userID
			r.UserID = &id
			claimed++
		}
	}
	return claimed, nil
}

func (m *memoryRepo) CountAll(_ context.Context) (int, error) {
	return len(m.records), nil
}

func (m *memoryRepo) ListRecent(
	_ context.Context,
	limit int,
) ([]RecordSummary, error) {
	var out []RecordSummary
	for _, r := range m.records {
		out = append(out, RecordSummary{
			ID:          r.ID,
			UserID:      r.UserID,
			CompanyName: r.CompanyName,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(repo *memoryRepo, now time.Time) *Service {
	svc := NewService(repo, config.HistoryConfig{
		ListLimit:   50,
		ClaimWindow: 24 * time.Hour,
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestSave_AssignsIDAndDefaults(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, time.Now())

	record := &Record{CompanyName: "Acme"}
	id, err := svc.Save(context.Background(), record)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, StatusSuccess, record.Status)
}

func TestSave_KeepsExplicitStatus(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, time.Now())

	record := &Record{CompanyName: "Acme", Status: StatusFailed}
	_, err := svc.Save(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, record.Status)
}

func TestList_RequiresUser(t *testing.T) {
	svc := newTestService(&memoryRepo{}, time.Now())

	_, err := svc.List(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnauthorized))
}

func TestList_ReturnsOwnRecordsNewestFirst(t *testing.T) {
	now := time.Now()
	owner := "user-1"
	other := "user-2"

	repo := &memoryRepo{records: []*Record{
		{ID: "old", UserID: &owner, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", UserID: &owner, CreatedAt: now.Add(-time.Minute)},
		{ID: "theirs", UserID: &other, CreatedAt: now},
		{ID: "demo", UserID: nil, CreatedAt: now},
	}}
	svc := newTestService(repo, now)

	records, err := svc.List(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "old", records[1].ID)
}

func TestClaim_OnlyRecentDemoRecords(t *testing.T) {
	now := time.Now()

	repo := &memoryRepo{records: []*Record{
		{ID: "recent-demo", CreatedAt: now.Add(-time.Hour)},
		{ID: "stale-demo", CreatedAt: now.Add(-25 * time.Hour)},
	}}
	svc := newTestService(repo, now)

	claimed, err := svc.Claim(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), claimed)

	require.NotNil(t, repo.records[0].UserID)
	assert.Equal(t, "user-1", *repo.records[0].UserID)
	assert.Nil(t, repo.records[1].UserID)
}

func TestClaim_RequiresUser(t *testing.T) {
	svc := newTestService(&memoryRepo{}, time.Now())

	_, err := svc.Claim(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnauthorized))
}

func TestClaim_Idempotent(t *testing.T) {
	now := time.Now()
	repo := &memoryRepo{records: []*Record{
		{ID: "demo", CreatedAt: now.Add(-time.Hour)},
	}}
	svc := newTestService(repo, now)

	claimed, err := svc.Claim(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), claimed)

	claimed, err = svc.Claim(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), claimed)
}

func TestRecord_IsDemo(t *testing.T) {
	assert.True(t, (&Record{}).IsDemo())

	empty := ""
	assert.True(t, (&Record{UserID: &empty}).IsDemo())

	id := "user-1"
	assert.False(t, (&Record{UserID: &id}).IsDemo())
}

func TestImageList_RoundTrip(t *testing.T) {
	list := ImageList{"a", "b"}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned ImageList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	var fromNil ImageList
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, ImageList{}, fromNil)
}
