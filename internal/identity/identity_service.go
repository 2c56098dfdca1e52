// Package identity owns accounts: sign-up, sign-in, email verification,
// password reset, session tokens and the per-user profile document.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/travelease/internal/cache"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/pricing"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const minPasswordLength = 6

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify your email before signing in")
	ErrUserNotFound       = errors.New("no user found with this email")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrInvalidToken       = errors.New("invalid or expired session")
)

type IdentityUseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.UserProfile, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignOut(ctx context.Context, session domain.Session) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	SendEmailVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, code string) error
	SendPasswordReset(ctx context.Context, email string) error
	VerifyPasswordResetCode(ctx context.Context, code string) (string, error)
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
	Profile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// CodeStore keeps one-time codes and revoked session ids.
type CodeStore interface {
	SaveCode(ctx context.Context, purpose cache.CodePurpose, code, value string, ttl time.Duration) error
	PeekCode(ctx context.Context, purpose cache.CodePurpose, code string) (string, error)
	ConsumeCode(ctx context.Context, purpose cache.CodePurpose, code string) (string, error)
	Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

type BookingLister interface {
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SignUpInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInResult struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      *domain.UserProfile `json:"user"`
}

type IdentityService struct {
	users              repository.UserRepository
	bookings           BookingLister
	codes              CodeStore
	tokens             *TokenIssuer
	producer           Producer
	notificationsTopic string
	baseURL            string
	verificationTTL    time.Duration
	resetTTL           time.Duration
	now                func() time.Time
}

type IdentityServiceOption func(*IdentityService)

func WithNotifications(producer Producer, topic string) IdentityServiceOption {
	return func(s *IdentityService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func WithCodeTTLs(verification, reset time.Duration) IdentityServiceOption {
	return func(s *IdentityService) {
		s.verificationTTL = verification
		s.resetTTL = reset
	}
}

func NewIdentityService(
	users repository.UserRepository,
	bookings BookingLister,
	codes CodeStore,
	tokens *TokenIssuer,
	baseURL string,
	opts ...IdentityServiceOption,
) *IdentityService {
	service := &IdentityService{
		users:           users,
		bookings:        bookings,
		codes:           codes,
		tokens:          tokens,
		baseURL:         strings.TrimRight(baseURL, "/"),
		verificationTTL: 24 * time.Hour,
		resetTTL:        time.Hour,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *IdentityService) SignUp(ctx context.Context, input SignUpInput) (*domain.UserProfile, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		IsStudent:    pricing.IsStudentEmail(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		log.Printf("WARNING: verification email for user %s not queued: %v", user.ID, err)
	}
	return profileOf(user, []string{}), nil
}

func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	profile, err := s.profile(ctx, user)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Token: token, ExpiresAt: session.ExpiresAt, User: profile}, nil
}

// SignOut revokes the session's token until it would have expired anyway.
func (s *IdentityService) SignOut(ctx context.Context, session domain.Session) error {
	return s.codes.Blacklist(ctx, session.TokenID, session.ExpiresAt.Sub(s.now()))
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.codes.IsBlacklisted(ctx, session.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return session, nil
}

// SendEmailVerification is a no-op for accounts that are already verified.
func (s *IdentityService) SendEmailVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

func (s *IdentityService) VerifyEmail(ctx context.Context, code string) error {
	userID, err := s.codes.ConsumeCode(ctx, cache.CodeEmailVerification, code)
	if err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	return nil
}

func (s *IdentityService) SendPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := newCode()
	if err != nil {
		return err
	}
	if err := s.codes.SaveCode(ctx, cache.CodePasswordReset, code, user.ID, s.resetTTL); err != nil {
		return err
	}
	return s.notify(ctx, kafka.Event{
		Type:   kafka.EventPasswordReset,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Link:   fmt.Sprintf("%s/reset-password/%s", s.baseURL, code),
	})
}

// VerifyPasswordResetCode checks a reset code without using it up and
// returns the email it was issued for.
func (s *IdentityService) VerifyPasswordResetCode(ctx context.Context, code string) (string, error) {
	userID, err := s.codes.PeekCode(ctx, cache.CodePasswordReset, code)
	if err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	return user.Email, nil
}

func (s *IdentityService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.codes.ConsumeCode(ctx, cache.CodePasswordReset, code)
	if err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	return nil
}

func (s *IdentityService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *IdentityService) profile(ctx context.Context, user *domain.User) (*domain.UserProfile, error) {
	ids, err := s.bookings.ListIDsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return profileOf(user, ids), nil
}

func (s *IdentityService) sendVerification(ctx context.Context, user *domain.User) error {
	code, err := newCode()
	if err != nil {
		return err
	}
	if err := s.codes.SaveCode(ctx, cache.CodeEmailVerification, code, user.ID, s.verificationTTL); err != nil {
		return err
	}
	return s.notify(ctx, kafka.Event{
		Type:   kafka.EventEmailVerification,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Link:   fmt.Sprintf("%s/verify-email?oobCode=%s", s.baseURL, code),
	})
}

func (s *IdentityService) notify(ctx context.Context, event kafka.Event) error {
	if s.producer == nil || s.notificationsTopic == "" {
		return nil
	}
	event.OccurredAt = s.now()
	return s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event)
}

var validate = validator.New()

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func profileOf(user *domain.User, bookingIDs []string) *domain.UserProfile {
	if bookingIDs == nil {
		bookingIDs = []string{}
	}
	return &domain.UserProfile{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		IsStudent:     user.IsStudent,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		BookingIDs:    bookingIDs,
	}
}

var _ IdentityUseCase = (*IdentityService)(nil)
