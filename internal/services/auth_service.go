package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/utils"
	"luxedrive/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks credentials. The role argument is a hint that only
// the simulated authenticator honours.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string, role models.UserRole) (*models.User, error)
	Register(ctx context.Context, email, password, name string) (*models.User, error)
}

type AuthService interface {
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	Signup(ctx context.Context, request *SignupRequest) (*AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*models.User, error)
	ValidateToken(ctx context.Context, token string) (*utils.SessionClaims, error)
}

type LoginRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=user admin"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

type AuthResponse struct {
	User      *models.User `json:"user"`
	SessionID string       `json:"session_id"`
	*utils.SessionToken
}

// SimulatedAuthenticator accepts any non-empty credentials. User ids are
// derived from the email so the same person keeps their bookings across
// logins.
type SimulatedAuthenticator struct{}

func (SimulatedAuthenticator) Authenticate(ctx context.Context, email, password string, role models.UserRole) (*models.User, error) {
	email = normalizeEmail(email)
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.UserRoleUser
	}
	if !role.Valid() {
		return nil, newValidationError("role", "must be user or admin")
	}

	return &models.User{
		ID:    simulatedUserID(email),
		Email: email,
		Name:  strings.SplitN(email, "@", 2)[0],
		Role:  role,
	}, nil
}

func (SimulatedAuthenticator) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("name", "is required")
	}

	return &models.User{
		ID:    simulatedUserID(email),
		Email: email,
		Name:  strings.TrimSpace(name),
		Role:  models.UserRoleUser,
	}, nil
}

func simulatedUserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("luxedrive:user:"+email)).String()
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// CredentialAuthenticator keeps bcrypt hashed accounts. Accounts whose
// email is in the admin list sign in as admins.
type CredentialAuthenticator struct {
	accounts       interfaces.AccountRepository
	minPasswordLen int
	admins         map[string]bool
	cost           int
}

func NewCredentialAuthenticator(accounts interfaces.AccountRepository, minPasswordLen int, adminEmails []string) *CredentialAuthenticator {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = true
		}
	}

	return &CredentialAuthenticator{
		accounts:       accounts,
		minPasswordLen: minPasswordLen,
		admins:         admins,
		cost:           bcrypt.DefaultCost,
	}
}

func (a *CredentialAuthenticator) roleFor(email string, stored models.UserRole) models.UserRole {
	if a.admins[email] {
		return models.UserRoleAdmin
	}
	if stored == "" {
		return models.UserRoleUser
	}
	return stored
}

func (a *CredentialAuthenticator) Authenticate(ctx context.Context, email, password string, _ models.UserRole) (*models.User, error) {
	email = normalizeEmail(email)
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}

	account, err := a.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnauthenticated, utils.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnauthenticated, utils.ErrInvalidCredentials)
	}

	user := account.User
	user.Role = a.roleFor(email, user.Role)
	return &user, nil
}

func (a *CredentialAuthenticator) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}
	if len(password) < a.minPasswordLen {
		return nil, newValidationError("password", fmt.Sprintf("must be at least %d characters", a.minPasswordLen))
	}
	if len(password) > MaxPasswordBytes {
		return nil, newValidationError("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("name", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		User: models.User{
			ID:    uuid.NewString(),
			Email: email,
			Name:  strings.TrimSpace(name),
			Role:  a.roleFor(email, models.UserRoleUser),
		},
		PasswordHash: string(hash),
	}
	if err := a.accounts.Create(ctx, account); err != nil {
		return nil, fromRepository(err)
	}

	user := account.User
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireCredentials(email, password string) error {
	if email == "" {
		return newValidationError("email", "is required")
	}
	if password == "" {
		return newValidationError("password", "is required")
	}
	return nil
}

type authService struct {
	authenticator Authenticator
	sessions      interfaces.SessionRepository
	jwtSecret     string
	tokenTTL      time.Duration
	logger        *logger.Logger
}

func NewAuthService(authenticator Authenticator, sessions interfaces.SessionRepository, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) AuthService {
	return &authService{
		authenticator: authenticator,
		sessions:      sessions,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		logger:        log,
	}
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticator.Authenticate(ctx, request.Email, request.Password, request.Role)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			s.logger.WithField("email", normalizeEmail(request.Email)).Warn("Login attempt with invalid credentials")
		}
		return nil, err
	}

	response, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(user.ID, utils.EventUserLogin, map[string]interface{}{"session_id": response.SessionID})
	return response, nil
}

func (s *authService) Signup(ctx context.Context, request *SignupRequest) (*AuthResponse, error) {
	user, err := s.authenticator.Register(ctx, request.Email, request.Password, request.Name)
	if err != nil {
		return nil, err
	}

	response, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(user.ID, utils.EventUserSignedUp, map[string]interface{}{"session_id": response.SessionID})
	return response, nil
}

func (s *authService) startSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	sessionID := uuid.NewString()
	if err := s.sessions.PutUser(ctx, sessionID, user); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := utils.GenerateSessionToken(sessionID, user.ID, string(user.Role), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		SessionID:    sessionID,
		SessionToken: token,
	}, nil
}

// Logout forgets the session user. The cart under the same session is
// left alone, as the storefront did.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteUser(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.logger.WithField("session_id", sessionID).Info("Session ended")
	return nil
}

func (s *authService) Current(ctx context.Context, sessionID string) (*models.User, error) {
	user, err := s.sessions.GetUser(ctx, sessionID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return user, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.SessionClaims, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return claims, nil
}
