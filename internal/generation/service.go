// AngelaMos | 2026
// service.go

package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angelamos/logoforge/internal/config"
	"github.com/angelamos/logoforge/internal/core"
	"github.com/angelamos/logoforge/internal/credits"
	"github.com/angelamos/logoforge/internal/history"
	"github.com/angelamos/logoforge/internal/prompt"
)

const (
	msgInvalidKey   = "Your API key is invalid."
	msgBillingBlock = "Your image provider account needs a credit card on file before it can generate images."
	msgNoCredits    = "You have no credits left. Purchase a credit bundle or bring your own API key."
	msgDemoDisabled = "Trial generations are disabled. Sign in to generate logos."
)

type Generator interface {
	Generate(
		ctx context.Context,
		prompt string,
		count int,
		apiKeyOverride string,
	) ([]string, error)
}

type CreditGate interface {
	CheckAndDecrement(
		ctx context.Context,
		userID string,
		legacyGrant bool,
	) (credits.Decision, error)
	Refund(ctx context.Context, userID string) (int, error)
}

// Accounts is the slice of the user service the generation flow needs.
type Accounts interface {
	HasLegacyGrant(ctx context.Context, userID string) (bool, error)
	MirrorCredits(ctx context.Context, userID string, balance int) error
	TouchGeneration(ctx context.Context, userID, companyName string) error
}

type HistoryWriter interface {
	Enqueue(record *history.Record) bool
}

type Result struct {
	Images           []string
	RemainingCredits *int
	GenerationMS     int64
	ModelUsed        string
}

type Service struct {
	generator Generator
	gate      CreditGate
	accounts  Accounts
	writer    HistoryWriter
	cfg       config.GenerationConfig
	model     string
	log       *slog.Logger
	now       func() time.Time
}

func NewService(
	generator Generator,
	gate CreditGate,
	accounts Accounts,
	writer HistoryWriter,
	cfg config.GenerationConfig,
	model string,
	log *slog.Logger,
) *Service {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = 6
	}

	return &Service{
		generator: generator,
		gate:      gate,
		accounts:  accounts,
		writer:    writer,
		cfg:       cfg,
		model:     model,
		log:       log,
		now:       time.Now,
	}
}

// Generate runs the full request flow: credit gate, prompt composition,
// sequential upstream calls, then a fire-and-forget history record. An
// empty userID means a demo generation.
func (s *Service) Generate(
	ctx context.Context,
	userID string,
	req GenerateRequest,
) (*Result, error) {
	if userID == "" && !s.cfg.DemoEnabled {
		return nil, core.ForbiddenError(msgDemoDisabled)
	}

	if req.NumberOfImages > s.cfg.MaxImages {
		return nil, core.ValidationError(fmt.Sprintf(
			"numberOfImages must be at most %d", s.cfg.MaxImages,
		))
	}

	style, err := prompt.ParseStyle(req.SelectedStyle)
	if err != nil {
		return nil, core.ValidationError(err.Error())
	}

	layout, err := prompt.ParseLayout(req.SelectedLayout)
	if err != nil {
		return nil, core.ValidationError(err.Error())
	}

	// BYOK callers and demo callers bypass the credit gate. Everyone else
	// pays one credit per request; a ledger failure denies rather than
	// granting a free generation.
	gated := userID != "" && req.UserAPIKey == ""
	var remaining *int

	if gated {
		legacy, err := s.accounts.HasLegacyGrant(ctx, userID)
		if err != nil {
			return nil, core.UnavailableError("credit system unavailable")
		}

		decision, err := s.gate.CheckAndDecrement(ctx, userID, legacy)
		if err != nil {
			s.log.Error("credit gate failure", "error", err, "user_id", userID)
			return nil, core.UnavailableError("credit system unavailable")
		}

		if !decision.Allowed {
			return nil, core.QuotaExhaustedError(msgNoCredits)
		}

		remaining = &decision.Remaining
		s.mirrorCredits(ctx, userID, decision.Remaining)
	}

	promptText, err := prompt.Compose(prompt.Input{
		CompanyName:     req.CompanyName,
		Style:           style,
		Layout:          layout,
		PrimaryColor:    req.SelectedPrimaryColor,
		BackgroundColor: req.SelectedBackgroundColor,
		AdditionalInfo:  req.AdditionalInfo,
	})
	if err != nil {
		if gated {
			s.refund(ctx, userID, remaining)
		}
		return nil, core.ValidationError(err.Error())
	}

	start := s.now()
	images, genErr := s.generator.Generate(
		ctx,
		promptText,
		req.NumberOfImages,
		req.UserAPIKey,
	)
	elapsed := s.now().Sub(start).Milliseconds()

	if genErr != nil {
		if gated {
			s.refund(ctx, userID, remaining)
		}

		s.recordAttempt(userID, req, nil, elapsed, genErr)
		return nil, s.mapGenerationError(genErr)
	}

	s.recordAttempt(userID, req, images, elapsed, nil)

	if userID != "" {
		if err := s.accounts.TouchGeneration(ctx, userID, req.CompanyName); err != nil {
			s.log.Warn("touch generation failed", "error", err, "user_id", userID)
		}
	}

	return &Result{
		Images:           images,
		RemainingCredits: remaining,
		GenerationMS:     elapsed,
		ModelUsed:        s.model,
	}, nil
}

func (s *Service) refund(ctx context.Context, userID string, remaining *int) {
	balance, err := s.gate.Refund(ctx, userID)
	if err != nil {
		s.log.Error("credit refund failed", "error", err, "user_id", userID)
		return
	}

	if remaining != nil {
		*remaining = balance
	}
	s.mirrorCredits(ctx, userID, balance)
}

func (s *Service) mirrorCredits(ctx context.Context, userID string, balance int) {
	if err := s.accounts.MirrorCredits(ctx, userID, balance); err != nil {
		s.log.Warn("credit mirror write failed",
			"error", err,
			"user_id", userID,
		)
	}
}

// recordAttempt enqueues a history record for every attempt, success or
// failure. The response is never blocked on this write.
func (s *Service) recordAttempt(
	userID string,
	req GenerateRequest,
	images []string,
	elapsed int64,
	genErr error,
) {
	record := &history.Record{
		CompanyName:     req.CompanyName,
		Layout:          req.SelectedLayout,
		Style:           req.SelectedStyle,
		PrimaryColor:    req.SelectedPrimaryColor,
		BackgroundColor: req.SelectedBackgroundColor,
		AdditionalInfo:  req.AdditionalInfo,
		Images:          images,
		Status:          history.StatusSuccess,
		GenerationMS:    elapsed,
		ModelUsed:       s.model,
	}

	if userID != "" {
		record.UserID = &userID
	}

	if genErr != nil {
		record.Status = history.StatusFailed
		msg := genErr.Error()
		record.ErrorMessage = &msg
		record.Images = nil
	}

	s.writer.Enqueue(record)
}

func (s *Service) mapGenerationError(err error) error {
	switch {
	case errors.Is(err, ErrProviderUnauthorized):
		return core.NewAppError(
			err,
			msgInvalidKey,
			http.StatusUnauthorized,
			"PROVIDER_KEY_INVALID",
		)
	case errors.Is(err, ErrProviderForbidden):
		return core.NewAppError(
			err,
			msgBillingBlock,
			http.StatusForbidden,
			"PROVIDER_BILLING_BLOCK",
		)
	case errors.Is(err, ErrNotConfigured):
		return core.NewAppError(
			err,
			"image generation is not configured",
			http.StatusInternalServerError,
			"PROVIDER_NOT_CONFIGURED",
		)
	default:
		return fmt.Errorf("generation failed: %w", err)
	}
}
