package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

var validate = validator.New()

// AuthConfig holds the secrets and tunables for AuthService.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AdminSecret is the escalation secret accepted at signup. Empty disables
	// the secret path entirely.
	AdminSecret string
	BcryptCost  int
}

// AuthService implements signup, login and admin creation.
type AuthService struct {
	users  ports.UserRepository
	grants grantRecorder
	cfg    AuthConfig
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, events ports.RoleEventRepository, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:  users,
		grants: grantRecorder{events: events, log: log},
		cfg:    cfg,
		log:    log,
	}
}

// Signup registers a user. A non-empty AdminKey makes the account an admin
// when it matches the configured secret and fails with ErrForbidden otherwise.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	fullname, email, err := normalizeCredentials(in.Fullname, in.Email, in.Password)
	if err != nil {
		return "", nil, err
	}

	// A taken email is a conflict whatever else was submitted; the unique
	// index still guards the race between this lookup and the insert.
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return "", nil, err
	}

	var grant *domain.AdminGrant
	if in.AdminKey != "" {
		g := domain.AdminGrant{Variant: domain.GrantBySecret, Secret: in.AdminKey}
		if err := g.Authorize(s.cfg.AdminSecret); err != nil {
			metrics.AuthorizationDeniedTotal.WithLabelValues("escalation_secret").Inc()
			s.log.Warn().Str("email", email).Msg("admin escalation rejected")
			return "", nil, fmt.Errorf("signup: %w", err)
		}
		grant = &g
	}

	user, err := s.register(ctx, fullname, email, in.Password, grant)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login verifies credentials. Unknown email and wrong password both yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// CreateAdmin registers a new admin on behalf of actor, who must currently be
// an admin in the credential store. Nothing is persisted otherwise.
func (s *AuthService) CreateAdmin(ctx context.Context, actor *domain.Identity, in ports.CreateAdminInput) (*domain.User, error) {
	current, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	grant := domain.AdminGrant{Variant: domain.GrantByAdmin, Actor: current}
	if err := grant.Authorize(s.cfg.AdminSecret); err != nil {
		metrics.AuthorizationDeniedTotal.WithLabelValues("create_admin").Inc()
		return nil, fmt.Errorf("create admin: %w", err)
	}

	fullname, email, err := normalizeCredentials(in.Fullname, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	return s.register(ctx, fullname, email, in.Password, &grant)
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrUserExists
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("lookup email: %w", err)
	}
}

// register hashes the password and persists the user. A non-nil grant makes
// the user an admin and records the grant.
func (s *AuthService) register(ctx context.Context, fullname, email, password string, grant *domain.AdminGrant) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Fullname:     fullname,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      grant != nil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	role := "user"
	if grant != nil {
		role = "admin"
		s.grants.record(ctx, created.ID, *grant, true)
	}
	metrics.SignupsTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", role).Msg("user registered")

	return created, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeCredentials trims the inputs and rejects blanks or a malformed email.
func normalizeCredentials(fullname, email, password string) (string, string, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeEmail(email)

	var missing []string
	if fullname == "" {
		missing = append(missing, "fullname")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return "", "", fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if err := validate.Var(email, "email"); err != nil {
		return "", "", fmt.Errorf("%w: email must be a valid email", domain.ErrValidation)
	}
	return fullname, email, nil
}
