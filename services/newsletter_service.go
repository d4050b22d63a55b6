package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"recipe-blog-cms/mailer"
	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"

	"gopkg.in/go-playground/validator.v9"
	"gorm.io/gorm"
)

const defaultSubscribeSource = "website"

type NewsletterService interface {
	Subscribe(ctx context.Context, email, source string) (*models.SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Stats(ctx context.Context) (models.NewsletterStats, error)
}

type newsletterService struct {
	newsletterRepo repositories.NewsletterRepository
	mail           mailer.Sender
	appURL         string
	validate       *validator.Validate
	logger         *slog.Logger
	now            func() time.Time
}

func NewNewsletterService(newsletterRepo repositories.NewsletterRepository, mail mailer.Sender, appURL string, logger *slog.Logger) NewsletterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &newsletterService{
		newsletterRepo: newsletterRepo,
		mail:           mail,
		appURL:         strings.TrimRight(appURL, "/"),
		validate:       validator.New(),
		logger:         logger.With("service", "newsletter"),
		now:            time.Now,
	}
}

// checkEmail normalizes an address and rejects anything without a
// local@domain shape before the store is touched.
func (s *newsletterService) checkEmail(email string) (string, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", models.NewValidationError("email", "please enter a valid email address")
	}
	return email, nil
}

func (s *newsletterService) Subscribe(ctx context.Context, email, source string) (*models.SubscribeResult, error) {
	email, err := s.checkEmail(email)
	if err != nil {
		return nil, err
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = defaultSubscribeSource
	}

	result, err := s.subscribe(ctx, email, source)
	if err != nil && isDuplicateKey(err) {
		// Lost a race with a concurrent first subscribe; the row exists now.
		result, err = s.subscribe(ctx, email, source)
	}
	if err != nil {
		return nil, models.NewBackendError("subscription failed", err)
	}

	if result.Outcome != models.OutcomeAlreadySubscribed {
		s.sendWelcome(ctx, email, result.Outcome == models.OutcomeReactivated)
	}
	return result, nil
}

func (s *newsletterService) subscribe(ctx context.Context, email, source string) (*models.SubscribeResult, error) {
	existing, err := s.newsletterRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		subscriber := &models.NewsletterSubscriber{
			Email:              email,
			SubscriptionStatus: models.SubscriptionActive,
			SubscribedAt:       s.now(),
			Source:             source,
		}
		if err := s.newsletterRepo.Create(ctx, subscriber); err != nil {
			return nil, err
		}
		return &models.SubscribeResult{Subscriber: *subscriber, Outcome: models.OutcomeSubscribed}, nil

	case err != nil:
		return nil, err

	case existing.SubscriptionStatus == models.SubscriptionActive:
		// Status stays active; the row records where the latest signup came from.
		if existing.Source != source {
			existing.Source = source
			if err := s.newsletterRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return &models.SubscribeResult{Subscriber: *existing, Outcome: models.OutcomeAlreadySubscribed}, nil

	default:
		// Reactivation keeps the original subscribed_at.
		existing.SubscriptionStatus = models.SubscriptionActive
		existing.Source = source
		if err := s.newsletterRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &models.SubscribeResult{Subscriber: *existing, Outcome: models.OutcomeReactivated}, nil
	}
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	email, err := s.checkEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.newsletterRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "subscriber", "unsubscribe failed")
	}
	if existing.SubscriptionStatus == models.SubscriptionUnsubscribed {
		return existing, nil
	}

	existing.SubscriptionStatus = models.SubscriptionUnsubscribed
	if err := s.newsletterRepo.Update(ctx, existing); err != nil {
		return nil, models.NewBackendError("unsubscribe failed", err)
	}
	return existing, nil
}

func (s *newsletterService) Stats(ctx context.Context) (models.NewsletterStats, error) {
	stats, err := s.newsletterRepo.Stats(ctx, s.now().Add(-newsletterRecentWindow))
	if err != nil {
		return stats, models.NewBackendError("failed to load newsletter stats", err)
	}
	return stats, nil
}

// sendWelcome is best effort. The subscription stands even if mail fails.
func (s *newsletterService) sendWelcome(ctx context.Context, email string, returning bool) {
	if s.mail == nil {
		return
	}
	body, err := mailer.RenderWelcome(mailer.WelcomeData{Email: email, AppURL: s.appURL, Returning: returning})
	if err != nil {
		s.logger.Error("render welcome mail", "error", err)
		return
	}
	if err := s.mail.Send(ctx, email, mailer.WelcomeSubject, body); err != nil {
		s.logger.Warn("welcome mail not sent", "email", email, "error", err)
	}
}
