package repository

import (
	"context"

	"reimburse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	ListManagers(ctx context.Context) ([]model.User, error)
	ListManaged(ctx context.Context, page, limit int) ([]model.User, int64, error)
	ListActiveAdmins(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).Preload("Department").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole returns users with the given role, departments preloaded.
// Used by the admin screens (pending registrations with role="pending").
func (r *userRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	err := GetDB(ctx, r.db).Preload("Department").
		Where("role = ?", role).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	return users, err
}

// ListManagers returns users eligible to be assigned as a manager:
// managers and admins that are not deleted.
func (r *userRepository) ListManagers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := GetDB(ctx, r.db).
		Where("role IN ?", []string{model.RoleManager, model.RoleAdmin}).
		Where("status <> ?", model.StatusDeleted).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	return users, err
}

// ListManaged returns the non-admin users visible on the manage-users screen
// (active or still pending), paginated.
func (r *userRepository) ListManaged(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.User{}).
		Where("status IN ?", []string{model.StatusActive, model.StatusInactive}).
		Where("role <> ?", model.RoleAdmin)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Department").Preload("Manager").
		Where("status IN ?", []string{model.StatusActive, model.StatusInactive}).
		Where("role <> ?", model.RoleAdmin).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ListActiveAdmins returns every active Admin — the recipients of
// registration notifications.
func (r *userRepository) ListActiveAdmins(ctx context.Context) ([]model.User, error) {
	var admins []model.User
	err := GetDB(ctx, r.db).
		Where("role = ? AND status = ?", model.RoleAdmin, model.StatusActive).
		Order("created_at ASC, id ASC").
		Find(&admins).Error
	return admins, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

// HardDelete removes the row. Only used when rejecting a pending
// registration; managed users are soft-deleted via Status instead.
func (r *userRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{}).Error
}
