package service

import (
	"context"
	"fmt"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"
	"go-retail-admin/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService interface {
	ListUsers(ctx context.Context, sess *session.Session) ([]model.UserProfile, error)
	SetRole(ctx context.Context, sess *session.Session, userID uuid.UUID, role model.Role) (*model.UserProfile, error)
}

type userService struct {
	store    repository.Store
	sessions session.Store
	log      logrus.FieldLogger
}

func NewUserService(store repository.Store, sessions session.Store, log logrus.FieldLogger) UserService {
	return &userService{store: store, sessions: sessions, log: log}
}

// RequireAdmin is the single authorization check of the system.
func RequireAdmin(sess *session.Session) error {
	if sess == nil || !sess.IsAdmin() {
		return apperr.PermissionDenied("admin access required")
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, sess *session.Session) ([]model.UserProfile, error) {
	if err := RequireAdmin(sess); err != nil {
		return nil, err
	}
	users, err := s.store.Users().FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load users", err)
	}
	profiles := make([]model.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].ToProfile())
	}
	return profiles, nil
}

func (s *userService) SetRole(ctx context.Context, sess *session.Session, userID uuid.UUID, role model.Role) (*model.UserProfile, error) {
	if err := RequireAdmin(sess); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be %q or %q", model.RoleUser, model.RoleAdmin)
	}
	if userID.String() == sess.UserID {
		return nil, apperr.Validation("you cannot change your own role")
	}

	actor := sess.Actor()
	var updated *model.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdateRole(ctx, userID, role, actor.ID); err != nil {
			return err
		}
		details := fmt.Sprintf("Changed role of %s from %s to %s", user.Email, user.Role, role)
		user.Role = role
		updated = user
		return tx.SystemLogs().Create(ctx, model.NewSystemLogEntry(model.ActionRoleChanged, actor, details, userID.String()))
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to change role")
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "role": role, "actor": actor.ID}).Info("role changed")

	// sessions cache the profile, so the user signs in again with the new role
	if err := s.sessions.DeleteUserSessions(ctx, userID.String()); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("failed to revoke sessions after role change")
	}
	profile := updated.ToProfile()
	return &profile, nil
}
