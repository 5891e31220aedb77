package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/models"
	"storefront/utils"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("admin privileges required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("please verify your email before signing in")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidLink        = errors.New("invalid or expired verification link")
	ErrAlreadyVerified    = errors.New("email already verified")

	// ErrUserNotFound is returned by a UserRepository lookup that matches nothing.
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByVerifyToken(ctx context.Context, token string) (models.User, error)
	// Insert returns ErrConflict when the email is taken.
	Insert(ctx context.Context, u models.User) (models.User, error)
	// MarkVerified flips the flag and clears the token, only if the
	// account still holds that token. Otherwise ErrUserNotFound.
	MarkVerified(ctx context.Context, id, token string) error
}

// Verifier delivers the verification link for a fresh account.
type Verifier interface {
	SendVerification(ctx context.Context, email, token string) error
}

type Runner interface {
	Go(name string, fn func(ctx context.Context) error)
}

// Session is the verified identity behind a bearer token.
type Session struct {
	UserID string
	Email  string
	Role   models.Role
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type Service struct {
	users      UserRepository
	tokens     *utils.TokenIssuer
	verifier   Verifier
	runner     Runner
	adminEmail string
	hashCost   int
	log        *slog.Logger
	now        func() time.Time
}

type Options struct {
	AdminEmail string
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

func NewService(users UserRepository, tokens *utils.TokenIssuer, verifier Verifier, runner Runner, log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	cost := opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		verifier:   verifier,
		runner:     runner,
		adminEmail: normalizeEmail(opts.AdminEmail),
		hashCost:   cost,
		log:        log.With("component", "auth"),
		now:        time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, in models.SignUpInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := models.Validate(in); err != nil {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, ErrUserNotFound) {
		s.log.Error("signup lookup failed", "error", err)
		return fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("signup: hash password: %w", err)
	}

	token, err := newVerifyToken()
	if err != nil {
		return fmt.Errorf("signup: verify token: %w", err)
	}

	role := models.RoleUser
	if s.adminEmail != "" && in.Email == s.adminEmail {
		role = models.RoleAdmin
	}

	user, err := s.users.Insert(ctx, models.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    string(hash),
		Role:        role,
		Verified:    false,
		VerifyToken: token,
		CreatedAt:   s.now().UTC(),
	})
	if errors.Is(err, ErrConflict) {
		return ErrConflict
	}
	if err != nil {
		s.log.Error("signup insert failed", "error", err)
		return fmt.Errorf("signup: %w", err)
	}

	s.log.Info("account created", "user_id", user.ID, "role", user.Role)

	if s.verifier != nil && s.runner != nil {
		email := user.Email
		s.runner.Go("send verification", func(ctx context.Context) error {
			return s.verifier.SendVerification(ctx, email, token)
		})
	}
	return nil
}

// SignIn checks the password first and only then the verified flag, so an
// unverified account with a wrong password still reads as bad credentials.
func (s *Service) SignIn(ctx context.Context, in models.SignInInput) (models.SignInResp, error) {
	in.Email = normalizeEmail(in.Email)
	if err := models.Validate(in); err != nil {
		return models.SignInResp{}, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, ErrUserNotFound) {
		return models.SignInResp{}, ErrInvalidCredentials
	}
	if err != nil {
		s.log.Error("signin lookup failed", "error", err)
		return models.SignInResp{}, fmt.Errorf("signin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return models.SignInResp{}, ErrInvalidCredentials
	}
	if !user.Verified {
		return models.SignInResp{}, ErrUnverified
	}

	token, err := s.tokens.GenerateJWTToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return models.SignInResp{}, fmt.Errorf("signin: sign token: %w", err)
	}

	return models.SignInResp{
		Token: token,
		User: models.UserPublic{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidLink
	}

	user, err := s.users.FindByVerifyToken(ctx, token)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidLink
	}
	if err != nil {
		s.log.Error("verify lookup failed", "error", err)
		return fmt.Errorf("verify email: %w", err)
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	if err := s.users.MarkVerified(ctx, user.ID, token); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidLink
		}
		s.log.Error("verify update failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("verify email: %w", err)
	}

	s.log.Info("email verified", "user_id", user.ID)
	return nil
}

// Authenticate turns a bearer token into a Session.
func (s *Service) Authenticate(token string) (Session, error) {
	claims, err := s.tokens.ParseJWTToken(strings.TrimSpace(token))
	if err != nil {
		return Session{}, ErrUnauthorized
	}
	return Session{UserID: claims.ID, Email: claims.Email, Role: models.Role(claims.Role)}, nil
}

func RequireAdmin(s Session) error {
	if !s.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func newVerifyToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
