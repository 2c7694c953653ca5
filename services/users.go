// services/users.go
package services

import (
	"context"
	"errors"

	"padel-club-api/models"
	"padel-club-api/storage"

	"go.uber.org/zap"
)

// NewUser is the admin create payload. Any client supplied id is ignored.
type NewUser struct {
	Name             string  `json:"name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=6"`
	Level            float64 `json:"level" validate:"gte=0"`
	IsAdmin          bool    `json:"is_admin"`
	ClassesToRecover int     `json:"classes_to_recover" validate:"gte=0"`
}

// UserPatch lists the fields an admin may change. Nil fields are left alone.
type UserPatch struct {
	Name             *string  `json:"name" validate:"omitempty,min=1"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Password         *string  `json:"password" validate:"omitempty,min=6"`
	Level            *float64 `json:"level" validate:"omitempty,gte=0"`
	IsAdmin          *bool    `json:"is_admin"`
	ClassesToRecover *int     `json:"classes_to_recover" validate:"omitempty,gte=0"`
}

type UserService struct {
	users UserStore
	log   *zap.SugaredLogger
}

func NewUserService(users UserStore, log *zap.SugaredLogger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	s.log.Infow("listing users", "limit", limit)
	users, err := s.users.ListUsers(ctx, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Get returns a user. Members may read only their own record.
func (s *UserService) Get(ctx context.Context, caller *models.User, id uint) (*models.User, error) {
	if caller.ID != id {
		if err := RequireAdmin(caller); err != nil {
			return nil, err
		}
	}
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnw("user not found", "user_id", id)
		return nil, notFound("User not found")
	}
	return u, err
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}
	s.log.Infow("creating user", "email", in.Email)

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		s.log.Warnw("create user failed: email already registered", "email", in.Email)
		return nil, rejected("Email already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:             in.Name,
		Email:            in.Email,
		HashedPassword:   hash,
		Level:            in.Level,
		IsAdmin:          in.IsAdmin,
		ClassesToRecover: in.ClassesToRecover,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, rejected("Email already registered")
		}
		return nil, err
	}
	s.log.Infow("user created", "user_id", u.ID)
	return u, nil
}

func (s *UserService) Patch(ctx context.Context, id uint, p UserPatch) (*models.User, error) {
	if p.Email != nil {
		e := NormalizeEmail(*p.Email)
		p.Email = &e
	}
	if err := check(p); err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnw("user not found for update", "user_id", id)
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		hash, err := HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		u.HashedPassword = hash
	}
	if p.Level != nil {
		u.Level = *p.Level
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	if p.ClassesToRecover != nil {
		u.ClassesToRecover = *p.ClassesToRecover
	}

	if err := s.users.SaveUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, rejected("Email already registered")
		}
		return nil, err
	}
	s.log.Infow("user updated", "user_id", id)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	s.log.Infow("deleting user", "user_id", id)
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("user not found for deletion", "user_id", id)
			return notFound("User not found")
		}
		return err
	}
	return nil
}
