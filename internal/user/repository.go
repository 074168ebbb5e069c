package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SlawCzech/dev-me-up/internal/apperrors"
)

// ErrDuplicateEmail signals a unique-constraint violation on User.Email.
var ErrDuplicateEmail = errors.New("email already registered")

// ListFilter narrows the staff user listing.
type ListFilter struct {
	Email    string
	Username string
	IsActive *bool
}

// UserRepository is the persistence boundary for accounts, profiles and
// anonymous users.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User, p *UserProfile) error
	GetUser(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id uint) error
	FirstProfile(ctx context.Context, userID uint) (*UserProfile, error)
	SaveProfile(ctx context.Context, p *UserProfile) error
	CreateAnonymousUser(ctx context.Context) (*AnonymousUser, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser persists the user and, when given, the profile in a single
// transaction so a read right after creation sees joined profile data.
func (r *GormUserRepository) CreateUser(ctx context.Context, u *User, p *UserProfile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if p != nil {
			p.UserID = u.ID
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// GetUser returns nil without error when no user has the given id.
func (r *GormUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, apperrors.NewAppError(500, "error getting user", result.Error)
	}
	return &u, nil
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, apperrors.NewAppError(500, "error getting user", result.Error)
	}
	return &u, nil
}

func (r *GormUserRepository) UpdateUser(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return apperrors.NewAppError(500, "error updating user", err)
	}
	return nil
}

// DeleteUser removes the user and its profiles. Profile cleanup runs in the
// same transaction since sqlite test databases do not enforce the cascade.
func (r *GormUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&UserProfile{}).Error; err != nil {
			return apperrors.NewAppError(500, "error deleting user profiles", err)
		}
		if err := tx.Delete(&User{}, id).Error; err != nil {
			return apperrors.NewAppError(500, "error deleting user", err)
		}
		return nil
	})
}

// FirstProfile returns nil without error when the user has no profile.
func (r *GormUserRepository) FirstProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	var p UserProfile
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").First(&p)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, apperrors.NewAppError(500, "error getting user profile", result.Error)
	}
	return &p, nil
}

func (r *GormUserRepository) SaveProfile(ctx context.Context, p *UserProfile) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return apperrors.NewAppError(500, "error saving user profile", err)
	}
	return nil
}

func (r *GormUserRepository) CreateAnonymousUser(ctx context.Context) (*AnonymousUser, error) {
	anon := &AnonymousUser{ID: uuid.New()}
	if err := r.db.WithContext(ctx).Create(anon).Error; err != nil {
		return nil, apperrors.NewAppError(500, "error creating anonymous user", err)
	}
	return anon, nil
}

func (r *GormUserRepository) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	query := r.db.WithContext(ctx).Model(&User{})
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var users []User
	if err := query.Order("last_login DESC NULLS LAST").Find(&users).Error; err != nil {
		return nil, apperrors.NewAppError(500, "error listing users", err)
	}
	return users, nil
}
