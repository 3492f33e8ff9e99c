package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"
	"go-retail-admin/internal/session"
	"go-retail-admin/pkg/jwt"
	"go-retail-admin/pkg/mailer"
	"go-retail-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.UserProfile, error)
	SignIn(ctx context.Context, email, password string, rememberMe bool) (*SignInResult, error)
	SignOut(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*session.Session, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type AuthConfig struct {
	DurableTTL    time.Duration
	EphemeralTTL  time.Duration
	ResetTokenTTL time.Duration
	ResetURLBase  string
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name" validate:"max=255"`
}

type SignInResult struct {
	Token   string           `json:"token"`
	Session *session.Session `json:"session"`
}

type authService struct {
	store    repository.Store
	sessions session.Store
	tokens   *jwt.Manager
	mail     mailer.Mailer
	cfg      AuthConfig
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewAuthService(store repository.Store, sessions session.Store, tokens *jwt.Manager, mail mailer.Mailer, cfg AuthConfig, log logrus.FieldLogger) AuthService {
	return &authService{
		store:    store,
		sessions: sessions,
		tokens:   tokens,
		mail:     mail,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.UserProfile, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       input.Email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        model.RoleUser,
	}
	if user.DisplayName == "" {
		user.DisplayName = model.DefaultDisplayName(user.Email)
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}
	user.CreatedBy = model.SystemActor.ID
	user.UpdatedBy = model.SystemActor.ID

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.Users().FindByEmail(ctx, user.Email)
		if err == nil {
			return apperr.Auth("email already registered")
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.SystemLogs().Create(ctx, model.NewSystemLogEntry(model.ActionUserRegistered, user.Actor(),
			"Registered user: "+user.Email, user.ID.String()))
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to register user")
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	profile := user.ToProfile()
	return &profile, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string, rememberMe bool) (*SignInResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Auth("invalid email or password")
	}
	if err != nil {
		return nil, apperr.Internal("failed to sign in", err)
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Auth("invalid email or password")
	}

	ttl := s.cfg.EphemeralTTL
	if rememberMe {
		ttl = s.cfg.DurableTTL
	}
	sess := &session.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID.String(),
		Profile:   user.ToProfile(),
		Durable:   rememberMe,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, apperr.Internal("failed to create session", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.DisplayName, string(user.Role), sess.ID, sess.ExpiresAt)
	if err != nil {
		return nil, apperr.Internal("failed to generate token", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "durable": rememberMe}).Info("user signed in")
	return &SignInResult{Token: token, Session: sess}, nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperr.Internal("failed to sign out", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.Auth("%s", err.Error())
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, apperr.Auth("session expired, please sign in again")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load session", err)
	}
	if sess.UserID != claims.UserID.String() {
		return nil, apperr.Auth("invalid or expired token")
	}
	return sess, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return wrapStoreErr(err, "failed to change password")
	}
	if !user.CheckPassword(currentPassword) {
		return apperr.Auth("current password is incorrect")
	}
	return s.setPassword(ctx, user, newPassword)
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email is required")
	}

	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		// Unknown addresses get the same response as known ones
		s.log.WithField("email", email).Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return apperr.Internal("failed to request password reset", err)
	}

	token := uuid.NewString()
	if err := s.sessions.SaveResetToken(ctx, token, user.ID.String(), s.cfg.ResetTokenTTL); err != nil {
		return apperr.Internal("failed to request password reset", err)
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Text: fmt.Sprintf("Hi %s,\n\nUse this link to choose a new password. It expires in %s.\n\n%s\n",
			user.DisplayName, s.cfg.ResetTokenTTL, resetLink(s.cfg.ResetURLBase, token)),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return apperr.Internal("failed to send password reset email", err)
	}

	s.log.WithField("user_id", user.ID).Info("password reset email sent")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	userID, err := s.sessions.ConsumeResetToken(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return apperr.Auth("reset link is invalid or has expired")
	}
	if err != nil {
		return apperr.Internal("failed to reset password", err)
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return apperr.Auth("reset link is invalid or has expired")
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return wrapStoreErr(err, "failed to reset password")
	}
	return s.setPassword(ctx, user, newPassword)
}

// EnsureAdmin creates the bootstrap admin account when no user has that email yet.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	admin := &model.User{
		Email:       email,
		DisplayName: "Administrator",
		Role:        model.RoleAdmin,
	}
	admin.CreatedBy = model.SystemActor.ID
	admin.UpdatedBy = model.SystemActor.ID
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.store.Users().Create(ctx, admin); err != nil {
		return err
	}
	s.log.WithField("email", email).Info("admin user created")
	return nil
}

func (s *authService) setPassword(ctx context.Context, user *model.User, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.store.Users().UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return wrapStoreErr(err, "failed to update password")
	}
	s.log.WithField("user_id", user.ID).Info("password changed")
	return nil
}

func checkPassword(password string) error {
	if len(password) < model.MinPasswordLength {
		return apperr.Auth("password must be at least %d characters", model.MinPasswordLength)
	}
	return nil
}

func resetLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
