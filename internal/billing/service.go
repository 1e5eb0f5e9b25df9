// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/angelamos/logoforge/internal/config"
)

var ErrBadSignature = errors.New("webhook signature verification failed")

// sessionSeenTTL bounds the idempotency keys; Stripe retries webhooks for
// up to three days, 30 days leaves ample margin.
const sessionSeenTTL = 30 * 24 * time.Hour

type CreditSink interface {
	Add(ctx context.Context, userID string, n int) (int, error)
}

type Accounts interface {
	MirrorCredits(ctx context.Context, userID string, balance int) error
}

type Service struct {
	ledger   CreditSink
	accounts Accounts
	rdb      *redis.Client
	cfg      config.StripeConfig
	log      *slog.Logger
}

func NewService(
	ledger CreditSink,
	accounts Accounts,
	rdb *redis.Client,
	cfg config.StripeConfig,
	log *slog.Logger,
) *Service {
	return &Service{
		ledger:   ledger,
		accounts: accounts,
		rdb:      rdb,
		cfg:      cfg,
		log:      log,
	}
}

// HandleEvent verifies and dispatches a Stripe webhook delivery. Unknown
// event types are acknowledged without action so Stripe stops retrying.
func (s *Service) HandleEvent(
	ctx context.Context,
	payload []byte,
	sigHeader string,
) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	default:
		s.log.Debug("ignoring stripe event", "type", event.Type)
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(
	ctx context.Context,
	event stripe.Event,
) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	userID := session.ClientReferenceID
	if userID == "" {
		s.log.Warn("checkout session without client reference",
			"session_id", session.ID,
		)
		return nil
	}

	pkg, ok := PackageByID(session.Metadata["package_id"])
	if !ok {
		s.log.Warn("checkout session with unknown package",
			"session_id", session.ID,
			"package_id", session.Metadata["package_id"],
		)
		return nil
	}

	// Stripe redelivers events; SETNX on the session ID makes the top-up
	// apply exactly once.
	fresh, err := s.rdb.SetNX(
		ctx,
		"stripe:session:"+session.ID,
		"1",
		sessionSeenTTL,
	).Result()
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if !fresh {
		s.log.Info("stripe session already processed", "session_id", session.ID)
		return nil
	}

	balance, err := s.ledger.Add(ctx, userID, pkg.Credits)
	if err != nil {
		// Release the idempotency claim so the retry can apply the bundle.
		//nolint:errcheck // best-effort cleanup
		_ = s.rdb.Del(ctx, "stripe:session:"+session.ID).Err()
		return fmt.Errorf("apply credit bundle: %w", err)
	}

	if err := s.accounts.MirrorCredits(ctx, userID, balance); err != nil {
		s.log.Warn("credit mirror write failed",
			"error", err,
			"user_id", userID,
		)
	}

	s.log.Info("credit bundle applied",
		"user_id", userID,
		"package_id", pkg.ID,
		"credits", pkg.Credits,
		"balance", balance,
		"session_id", session.ID,
	)

	return nil
}

func (s *Service) Packages() []Package {
	return DefaultPackages
}
