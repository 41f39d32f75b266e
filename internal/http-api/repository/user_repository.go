package repository

import (
	"context"
	"fmt"

	"locallibrary/internal/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string) error
	GrantPermission(ctx context.Context, userID, codename string) error
	RevokePermission(ctx context.Context, userID, codename string) error
	Delete(ctx context.Context, id string) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Permissions").Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

// query methods return nil on error so callers never see a zero-value user
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Permissions").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// GrantPermission is idempotent: granting a held capability is a no-op.
func (r *userRepository) GrantPermission(ctx context.Context, userID, codename string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Permission{}).
		Where("user_id = ? AND codename = ?", userID, codename).
		Count(&n).Error; err != nil {
		return fmt.Errorf("check permission: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&models.Permission{UserID: userID, Codename: codename}).Error; err != nil {
		return fmt.Errorf("grant permission: %w", translate(err))
	}
	return nil
}

func (r *userRepository) RevokePermission(ctx context.Context, userID, codename string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND codename = ?", userID, codename).
		Delete(&models.Permission{}).Error; err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// Delete removes the user. Copies they had borrowed keep their row with no borrower.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BookInstance{}).
			Where("borrower_id = ?", id).
			Update("borrower_id", nil).Error; err != nil {
			return fmt.Errorf("detach borrowed copies: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Permission{}).Error; err != nil {
			return fmt.Errorf("delete permissions: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("delete refresh tokens: %w", err)
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
