package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
	ResetTokenTTL   = time.Hour
)

// Sign-in copy shown to users; provider details never leak past these.
var (
	ErrNoAccount       = models.NewError(models.CodeUnauthorized, "No account found with this email.")
	ErrWrongPassword   = models.NewError(models.CodeUnauthorized, "Incorrect password. Please try again.")
	ErrTooManyAttempts = models.NewError(models.CodeUnauthorized, "Too many attempts. Try again later or reset your password.")
	ErrDisabled        = models.NewError(models.CodeUnauthorized, "This account has been disabled.")
	ErrEmailTaken      = models.NewError(models.CodeConflict, "Email already registered")
	ErrResetInvalid    = models.NewError(models.CodeInvalid, "Reset link is invalid or has expired")
)

// TokenIssuer mints session tokens for an identity.
type TokenIssuer interface {
	Issue(id models.Identity) (string, error)
}

// SocialVerifier resolves a provider token to an identity.
type SocialVerifier interface {
	Verify(ctx context.Context, provider, token string) (models.Identity, error)
}

type AccountDeps struct {
	Profiles    store.ProfileRepository
	Credentials store.CredentialRepository
	Tokens      store.TokenRepository
	Issuer      TokenIssuer
	Social      SocialVerifier
	Mailer      Mailer
	BaseURL     string
}

type AccountService struct {
	deps AccountDeps
	opts Options
}

func NewAccountService(deps AccountDeps, opts Options) *AccountService {
	opts = opts.withDefaults()
	if deps.Mailer == nil {
		deps.Mailer = NewLogMailer(opts.Logger)
	}
	return &AccountService{deps: deps, opts: opts}
}

// Register creates credentials and the profile for a new email sign-up.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return models.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, models.WrapError(models.CodeInternal, "Failed to hash password", err)
	}

	uid := uuid.NewString()
	cred := models.Credential{UID: uid, Email: req.Email, PasswordHash: string(hash)}
	if err := s.deps.Credentials.Create(ctx, &cred); err != nil {
		if models.HasCode(err, models.CodeConflict) {
			return models.AuthResponse{}, ErrEmailTaken
		}
		return models.AuthResponse{}, err
	}

	id := models.Identity{
		UID:         uid,
		Email:       req.Email,
		Provider:    models.ProviderPassword,
		DisplayName: req.FirstName + " " + req.LastName,
	}
	profile := models.NewProfile(id)
	profile.FirstName, profile.LastName = req.FirstName, req.LastName
	profile.Plan = req.Plan
	stored, created, err := s.ensure(ctx, profile)
	if err != nil {
		return models.AuthResponse{}, err
	}
	s.opts.Logger.Info("account registered", zap.String("uid", uid), zap.String("plan", req.Plan))
	return s.respond(id, stored, created)
}

// Login checks the password and applies the lockout policy: after
// MaxFailedLogins wrong passwords the account is locked for LockoutDuration.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		var v models.Validation
		if email == "" {
			v.Add("email", "Email is required")
		}
		if req.Password == "" {
			v.Add("password", "Password is required")
		}
		return models.AuthResponse{}, v.Err()
	}

	cred, err := s.deps.Credentials.GetByEmail(ctx, email)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return models.AuthResponse{}, ErrNoAccount
		}
		return models.AuthResponse{}, err
	}

	now := s.opts.Now()
	switch {
	case cred.Disabled:
		return models.AuthResponse{}, ErrDisabled
	case cred.Locked(now):
		return models.AuthResponse{}, ErrTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		cred.FailedLogins++
		result := ErrWrongPassword
		if cred.FailedLogins >= MaxFailedLogins {
			until := now.Add(LockoutDuration)
			cred.LockedUntil = &until
			cred.FailedLogins = 0
			result = ErrTooManyAttempts
			s.opts.Logger.Warn("account locked", zap.String("uid", cred.UID))
		}
		if err := s.deps.Credentials.Update(ctx, cred); err != nil {
			return models.AuthResponse{}, err
		}
		return models.AuthResponse{}, result
	}

	if cred.FailedLogins > 0 || cred.LockedUntil != nil {
		cred.FailedLogins, cred.LockedUntil = 0, nil
		if err := s.deps.Credentials.Update(ctx, cred); err != nil {
			return models.AuthResponse{}, err
		}
	}

	id := models.Identity{UID: cred.UID, Email: cred.Email, Provider: models.ProviderPassword}
	profile, created, err := s.ensure(ctx, models.NewProfile(id))
	if err != nil {
		return models.AuthResponse{}, err
	}
	return s.respond(id, profile, created)
}

// Social signs in with a provider token, creating the profile on first sight only.
func (s *AccountService) Social(ctx context.Context, req models.SocialAuthRequest) (models.AuthResponse, error) {
	if s.deps.Social == nil {
		return models.AuthResponse{}, models.NewError(models.CodeUnavailable, "social sign-in is not configured")
	}
	id, err := s.deps.Social.Verify(ctx, req.Provider, req.Token)
	if err != nil {
		s.opts.Logger.Info("social token rejected", zap.String("provider", req.Provider), zap.Error(err))
		return models.AuthResponse{}, err
	}
	profile, created, err := s.EnsureProfile(ctx, id)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return s.respond(id, profile, created)
}

// EnsureProfile writes a profile for id only if none exists and returns the
// stored one. Calling it again never changes createdAt or plan.
func (s *AccountService) EnsureProfile(ctx context.Context, id models.Identity) (*models.Profile, bool, error) {
	if err := requireIdentity(id); err != nil {
		return nil, false, err
	}
	return s.ensure(ctx, models.NewProfile(id))
}

func (s *AccountService) ensure(ctx context.Context, profile models.Profile) (*models.Profile, bool, error) {
	created, err := s.deps.Profiles.CreateIfAbsent(ctx, &profile)
	if err != nil {
		return nil, false, err
	}
	stored, err := s.deps.Profiles.Get(ctx, profile.UID)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.opts.Logger.Info("profile created", zap.String("uid", profile.UID), zap.String("provider", profile.Provider))
	}
	return stored, created, nil
}

func (s *AccountService) respond(id models.Identity, profile *models.Profile, created bool) (models.AuthResponse, error) {
	token, err := s.deps.Issuer.Issue(id)
	if err != nil {
		return models.AuthResponse{}, models.WrapError(models.CodeInternal, "Failed to generate token", err)
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventSignedIn, Data: id})
	return models.AuthResponse{Token: token, User: *profile, Created: created}, nil
}

// Logout revokes the session token until its natural expiry.
func (s *AccountService) Logout(ctx context.Context, id models.Identity, jti string, expiresAt time.Time) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if jti != "" {
		if err := s.deps.Tokens.Revoke(ctx, jti, expiresAt); err != nil {
			return err
		}
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventSignedOut})
	return nil
}

// RequestPasswordReset mails a single-use link. Unknown emails succeed silently.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		var v models.Validation
		v.Add("email", "Enter your email to reset your password.")
		return v.Err()
	}

	cred, err := s.deps.Credentials.GetByEmail(ctx, email)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return models.WrapError(models.CodeInternal, "Error sending reset email. Try again.", err)
	}
	reset := models.PasswordReset{
		TokenHash: hashToken(token),
		UID:       cred.UID,
		ExpiresAt: s.opts.Now().Add(ResetTokenTTL),
	}
	if err := s.deps.Tokens.SaveReset(ctx, &reset); err != nil {
		return err
	}

	var name string
	if p, err := s.deps.Profiles.Get(ctx, cred.UID); err == nil {
		name = p.FirstName
	}
	link := strings.TrimRight(s.deps.BaseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	if err := s.deps.Mailer.SendPasswordReset(ctx, cred.Email, name, link); err != nil {
		return models.WrapError(models.CodeUnavailable, "Error sending reset email. Try again.", err)
	}
	return nil
}

// ConfirmPasswordReset redeems a reset token and clears any lockout.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirmRequest) error {
	if len(req.Password) < models.MinPasswordLength {
		var v models.Validation
		v.Add("password", "Password must be at least 8 characters")
		return v.Err()
	}
	if req.Token == "" {
		return ErrResetInvalid
	}

	reset, err := s.deps.Tokens.TakeReset(ctx, hashToken(req.Token))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return ErrResetInvalid
		}
		return err
	}
	if !s.opts.Now().Before(reset.ExpiresAt) {
		return ErrResetInvalid
	}

	cred, err := s.deps.Credentials.GetByUID(ctx, reset.UID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.WrapError(models.CodeInternal, "Failed to hash password", err)
	}
	cred.PasswordHash = string(hash)
	cred.FailedLogins, cred.LockedUntil = 0, nil
	return s.deps.Credentials.Update(ctx, cred)
}

func (s *AccountService) Me(ctx context.Context, id models.Identity) (*models.Profile, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	profile, _, err := s.ensure(ctx, models.NewProfile(id))
	return profile, err
}

func (s *AccountService) UpdateMe(ctx context.Context, id models.Identity, req models.UpdateProfileRequest) (*models.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.Me(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		profile.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	if req.Plan != nil {
		profile.Plan = *req.Plan
	}
	if err := s.deps.Profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *AccountService) SetDeviceToken(ctx context.Context, id models.Identity, token string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		var v models.Validation
		v.Add("token", "Token is required")
		return v.Err()
	}
	if _, err := s.Me(ctx, id); err != nil {
		return err
	}
	return s.deps.Profiles.SetDeviceToken(ctx, id.UID, token)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
