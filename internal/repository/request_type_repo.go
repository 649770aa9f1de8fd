package repository

import (
	"context"

	"reimburse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestTypeRepository interface {
	Create(ctx context.Context, rt *model.RequestType) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RequestType, error)
	List(ctx context.Context) ([]model.RequestType, error)
	Update(ctx context.Context, rt *model.RequestType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type requestTypeRepository struct {
	db *gorm.DB
}

func NewRequestTypeRepository(db *gorm.DB) RequestTypeRepository {
	return &requestTypeRepository{db: db}
}

func (r *requestTypeRepository) Create(ctx context.Context, rt *model.RequestType) error {
	return GetDB(ctx, r.db).Create(rt).Error
}

func (r *requestTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RequestType, error) {
	var rt model.RequestType
	if err := GetDB(ctx, r.db).First(&rt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *requestTypeRepository) List(ctx context.Context) ([]model.RequestType, error) {
	var types []model.RequestType
	err := GetDB(ctx, r.db).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *requestTypeRepository) Update(ctx context.Context, rt *model.RequestType) error {
	return GetDB(ctx, r.db).Save(rt).Error
}

func (r *requestTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RequestType{}).Error
}
