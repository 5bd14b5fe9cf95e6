package store

import (
	"context"
	"strings"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, wrap(err)
	}
	return users, nil
}

func (s *Relational) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (s *Relational) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "LOWER(email) = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (s *Relational) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return nil, Invalid("email", "required")
	}
	if u.Role == "" {
		u.Role = models.RoleEmployee
	}
	if !models.ValidRole(u.Role) {
		return nil, Invalid("role", "unknown role")
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, Invalid("email", "already in use")
		}
		return nil, wrap(err)
	}
	return u, nil
}

func (s *Relational) UpdateUser(ctx context.Context, id string, patch Patch) (*models.User, error) {
	cols, err := userColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if role := patchString(cols, "role", u.Role); !models.ValidRole(role) {
		return nil, Invalid("role", "unknown role")
	}
	if email := patchString(cols, "email", u.Email); strings.TrimSpace(email) == "" {
		return nil, Invalid("email", "required")
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&u).Updates(cols).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, Invalid("email", "already in use")
			}
			return nil, wrap(err)
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Relational) DeleteUser(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.User{}, "id = ?", id)
}

func (s *Relational) UpsertUserByEmail(ctx context.Context, email, firstName, lastName, defaultRole string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, Invalid("email", "required")
	}
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "LOWER(email) = ?", email).Error
	if err == nil {
		cols := map[string]any{"updated_at": time.Now()}
		if firstName != "" {
			cols["first_name"] = firstName
		}
		if lastName != "" {
			cols["last_name"] = lastName
		}
		if err := s.db.WithContext(ctx).Model(&u).Updates(cols).Error; err != nil {
			return nil, wrap(err)
		}
		return s.GetUser(ctx, u.ID)
	}
	if wrapped := wrap(err); wrapped != ErrNotFound {
		return nil, wrapped
	}
	u = models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      defaultRole,
		IsActive:  true,
	}
	return s.CreateUser(ctx, &u)
}

func (s *Relational) TouchLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_login_at": now, "updated_at": now}).Error
	return wrap(err)
}
