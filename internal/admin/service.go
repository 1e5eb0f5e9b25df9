// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/logoforge/internal/history"
)

type UserStats interface {
	CountTotal(ctx context.Context) (int, error)
	CountActiveSince(ctx context.Context, cutoff time.Time) (int, error)
	CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error)
}

type LogoReader interface {
	CountAll(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]history.RecordSummary, error)
	List(ctx context.Context, userID string) ([]history.Record, error)
}

type Service struct {
	users UserStats
	logos LogoReader
	now   func() time.Time
}

func NewService(users UserStats, logos LogoReader) *Service {
	return &Service{
		users: users,
		logos: logos,
		now:   time.Now,
	}
}

// StartOfDay truncates t to UTC midnight. Accounts whose last activity is
// exactly midnight count as active today; one millisecond earlier does not.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type DashboardStats struct {
	TotalUsers       int                  `json:"total_users"`
	ActiveUsersToday int                  `json:"active_users_today"`
	NewUsersToday    int                  `json:"new_users_today"`
	TotalLogos       int                  `json:"total_logos"`
	RecentLogos      []RecentLogoResponse `json:"recent_logos"`
}

type RecentLogoResponse struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email,omitempty"`
	CompanyName  string    `json:"company_name"`
	Layout       string    `json:"layout"`
	Style        string    `json:"style"`
	Status       string    `json:"status"`
	ModelUsed    string    `json:"model_used"`
	GenerationMS int64     `json:"generation_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	startOfDay := StartOfDay(s.now())

	totalUsers, err := s.users.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	activeToday, err := s.users.CountActiveSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	newToday, err := s.users.CountCreatedSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	totalLogos, err := s.logos.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	recent, err := s.logos.ListRecent(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &DashboardStats{
		TotalUsers:       totalUsers,
		ActiveUsersToday: activeToday,
		NewUsersToday:    newToday,
		TotalLogos:       totalLogos,
		RecentLogos:      toRecentLogos(recent),
	}, nil
}

func (s *Service) UserLogos(
	ctx context.Context,
	userID string,
) ([]history.Record, error) {
	return s.logos.List(ctx, userID)
}

func toRecentLogos(summaries []history.RecordSummary) []RecentLogoResponse {
	responses := make([]RecentLogoResponse, 0, len(summaries))
	for _, s := range summaries {
		resp := RecentLogoResponse{
			ID:           s.ID,
			CompanyName:  s.CompanyName,
			Layout:       s.Layout,
			Style:        s.Style,
			Status:       s.Status,
			ModelUsed:    s.ModelUsed,
			GenerationMS: s.GenerationMS,
			CreatedAt:    s.CreatedAt,
		}
		if s.UserEmail != nil {
			resp.UserEmail = *s.UserEmail
		}
		responses = append(responses, resp)
	}
	return responses
}
