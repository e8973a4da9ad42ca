package bridge

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/taskdeck/webapp/internal/authprovider"
	"github.com/taskdeck/webapp/internal/backend"
	"github.com/taskdeck/webapp/internal/contracts"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// Provider is the external auth provider surface the bridge needs. Nil-able
// via Service.Provider: without a configured provider the bridge runs in
// direct mode against the task service alone.
type Provider interface {
	SignInEmail(ctx context.Context, email, password string) (authprovider.ProviderSession, error)
	SignUpEmail(ctx context.Context, email, password, name string) (authprovider.User, error)
	SignOut(ctx context.Context, cookieHeader string) error
}

// TaskAuth is the task service's own login/registration surface.
type TaskAuth interface {
	Login(ctx context.Context, email, password string) (backend.AuthResponse, error)
	Register(ctx context.Context, email, password string) (backend.RegisterResponse, error)
}

// Grant is the task-service credential obtained during login.
type Grant struct {
	Token    string
	Identity contracts.Identity
}

// Result is the outcome of a login. Identity is always set on success; Grant
// is nil in the degraded case where the provider accepted the credentials but
// the task service did not, so callers can see the missing token up front
// instead of discovering it on the first task operation.
type Result struct {
	Identity contracts.Identity
	Grant    *Grant
}

// Degraded reports whether task operations will be unauthenticated.
func (r Result) Degraded() bool {
	return r.Grant == nil
}

// Service reconciles the auth provider's session with the task service's own
// credentials. The two systems share nothing but the email/password pair the
// user typed; their user identifiers diverge.
type Service struct {
	Provider Provider
	Tasks    TaskAuth
	Log      zerolog.Logger
}

func NewService(provider Provider, tasks TaskAuth, log zerolog.Logger) *Service {
	return &Service{Provider: provider, Tasks: tasks, Log: log}
}

// Login signs in with the provider first; a provider rejection fails the
// whole operation. The task-service login that follows is best-effort: its
// failure degrades the result rather than aborting, so the provider and the
// task service never form a distributed transaction.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Result{}, ErrEmailRequired
	}
	if password == "" {
		return Result{}, ErrPasswordRequired
	}

	if s.Provider == nil {
		return s.directLogin(ctx, email, password)
	}

	providerSession, err := s.Provider.SignInEmail(ctx, email, password)
	if err != nil {
		if errors.Is(err, authprovider.ErrInvalidCredentials) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}

	identity := contracts.Identity{
		ID:    providerSession.User.ID,
		Email: providerSession.User.Email,
		Name:  providerSession.User.Name,
	}

	taskAuth, err := s.Tasks.Login(ctx, email, password)
	if err != nil {
		// Degraded login: the provider session is usable for the UI, but no
		// task-service token exists. Task operations will report 401.
		s.Log.Warn().Err(err).Str("email", email).Msg("task service login failed after provider sign-in")
		return Result{Identity: identity}, nil
	}

	// The task-service id is canonical: tasks are keyed by it.
	identity.ID = taskAuth.User.ID
	return Result{
		Identity: identity,
		Grant:    &Grant{Token: taskAuth.AccessToken, Identity: identity},
	}, nil
}

// Register creates the account with the provider first; that response is
// authoritative for the UI. The task-service registration that follows
// tolerates an "already registered" conflict, which a previous partial run
// may have left behind.
func (s *Service) Register(ctx context.Context, email, password, name string) (contracts.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return contracts.Identity{}, ErrEmailRequired
	}
	if password == "" {
		return contracts.Identity{}, ErrPasswordRequired
	}
	if strings.TrimSpace(name) == "" {
		name = localPart(email)
	}

	if s.Provider == nil {
		resp, err := s.Tasks.Register(ctx, email, password)
		if err != nil {
			return contracts.Identity{}, err
		}
		return contracts.Identity{ID: resp.ID, Email: resp.Email, Name: name}, nil
	}

	providerUser, err := s.Provider.SignUpEmail(ctx, email, password, name)
	if err != nil {
		return contracts.Identity{}, err
	}

	if _, err := s.Tasks.Register(ctx, email, password); err != nil {
		if isAlreadyRegistered(err) {
			s.Log.Debug().Str("email", email).Msg("task service account already exists")
		} else {
			s.Log.Warn().Err(err).Str("email", email).Msg("task service registration failed after provider sign-up")
		}
	}

	return contracts.Identity{
		ID:    providerUser.ID,
		Email: providerUser.Email,
		Name:  providerUser.Name,
	}, nil
}

// Logout signs out of the provider best-effort. Clearing the session cookies
// is the caller's job and happens unconditionally.
func (s *Service) Logout(ctx context.Context, cookieHeader string) {
	if s.Provider == nil {
		return
	}
	if err := s.Provider.SignOut(ctx, cookieHeader); err != nil {
		s.Log.Warn().Err(err).Msg("auth provider sign-out failed")
	}
}

func (s *Service) directLogin(ctx context.Context, email, password string) (Result, error) {
	taskAuth, err := s.Tasks.Login(ctx, email, password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}
	identity := taskAuth.User
	return Result{
		Identity: identity,
		Grant:    &Grant{Token: taskAuth.AccessToken, Identity: identity},
	}, nil
}

func isAlreadyRegistered(err error) bool {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == 409 {
		return true
	}
	return apiErr.Status == 400 && strings.Contains(strings.ToLower(apiErr.Message), "already registered")
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
