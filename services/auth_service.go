package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"recipe-blog-cms/identity"
	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	// Authenticate resolves a bearer token to its live session.
	Authenticate(ctx context.Context, token string) (*identity.Session, error)

	// FetchProfile returns (nil, nil) when the account has no profile yet.
	FetchProfile(ctx context.Context, userID uint) (*models.Profile, error)
	GetProfile(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.Profile, error)
	SetupProfile(ctx context.Context, user identity.User, req models.SetupProfileRequest) (*models.Profile, error)
}

type authService struct {
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	sessionRepo repositories.SessionRepository
	tokens      *identity.TokenIssuer
	logger      *slog.Logger
	now         func() time.Time
}

func NewAuthService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	sessionRepo repositories.SessionRepository,
	tokens *identity.TokenIssuer,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		logger:      logger.With("service", "auth"),
		now:         time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	account, profile, err := createAccount(ctx, s.accountRepo, s.profileRepo, req.Email, req.Password, req.DisplayName, models.RoleUser)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account registered", "account_id", account.ID)

	return s.openSession(ctx, account, profile)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, models.NewBackendError("failed to load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	profile, err := s.FetchProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, account, profile)
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Revoke(ctx, sessionID, s.now()); err != nil {
		return models.NewBackendError("failed to end session", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*identity.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid or expired token"}
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid or expired token"}
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "unknown session"}
		}
		return nil, models.NewBackendError("failed to load session", err)
	}
	if session.AccountID != accountID || !session.Active(s.now()) {
		return nil, models.ErrorUnauthorized{Message: "session has ended"}
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "account no longer exists"}
		}
		return nil, models.NewBackendError("failed to load account", err)
	}

	return &identity.Session{
		ID:          session.ID,
		AccessToken: token,
		User:        identity.User{ID: account.ID, Email: account.Email},
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

func (s *authService) FetchProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewBackendError("failed to load profile", err)
	}
	return profile, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.ErrProfileNotFound
	}
	return profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.Profile, error) {
	fields := map[string]interface{}{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if len(name) < 2 {
			return nil, models.NewValidationError("display_name", "display name must be at least 2 characters")
		}
		fields["display_name"] = name
	}

	if len(fields) > 0 {
		if err := s.profileRepo.Update(ctx, userID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrProfileNotFound
			}
			return nil, models.NewBackendError("profile update rejected", err)
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *authService) SetupProfile(ctx context.Context, user identity.User, req models.SetupProfileRequest) (*models.Profile, error) {
	existing, err := s.FetchProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrorConflict{Message: "profile already set up"}
	}

	profile := &models.Profile{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        models.RoleUser,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if isDuplicateKey(err) {
			return nil, models.ErrorConflict{Message: "profile already set up"}
		}
		return nil, models.NewBackendError("failed to create profile", err)
	}
	s.logger.Info("profile provisioned", "account_id", user.ID)
	return profile, nil
}

func (s *authService) openSession(ctx context.Context, account *models.Account, profile *models.Profile) (*models.AuthResponse, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(account.ID, account.Email, sessionID)
	if err != nil {
		return nil, models.NewBackendError("failed to sign token", err)
	}

	session := &models.Session{ID: sessionID, AccountID: account.ID, ExpiresAt: expiresAt}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, models.NewBackendError("failed to open session", err)
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   *account,
		Profile:   profile,
	}, nil
}

// createAccount provisions an account and its profile. A failed profile
// insert leaves an account that resolves as needing setup.
func createAccount(
	ctx context.Context,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	email, password, displayName string,
	role models.UserRole,
) (*models.Account, *models.Profile, error) {
	email = NormalizeEmail(email)

	_, err := accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, nil, models.ErrorConflict{Message: "email already registered"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, models.NewBackendError("failed to check account", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, models.NewBackendError("failed to hash password", err)
	}

	account := &models.Account{Email: email, PasswordHash: string(hashedPassword)}
	if err := accountRepo.Create(ctx, account); err != nil {
		if isDuplicateKey(err) {
			return nil, nil, models.ErrorConflict{Message: "email already registered"}
		}
		return nil, nil, models.NewBackendError("failed to create account", err)
	}

	if role == "" {
		role = models.RoleUser
	}
	profile := &models.Profile{
		ID:          account.ID,
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		Role:        role,
	}
	if err := profileRepo.Create(ctx, profile); err != nil {
		return account, nil, models.NewBackendError("failed to create profile", err)
	}

	return account, profile, nil
}
