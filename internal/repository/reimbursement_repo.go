package repository

import (
	"context"

	"reimburse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReimbursementRepository defines data access for reimbursement requests and
// their attached documents. Requests are never deleted.
type ReimbursementRepository interface {
	Create(ctx context.Context, req *model.ReimbursementRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReimbursementRequest, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.ReimbursementRequest, error)
	ListByManagerAndStatus(ctx context.Context, managerID uuid.UUID, status string, page, limit int) ([]model.ReimbursementRequest, int64, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ReimbursementRequest, error)
	ListAll(ctx context.Context, page, limit int) ([]model.ReimbursementRequest, int64, error)
	Update(ctx context.Context, req *model.ReimbursementRequest) error
	CreateDocument(ctx context.Context, doc *model.Document) error
	FindDocument(ctx context.Context, id uuid.UUID) (*model.Document, error)
}

type reimbursementRepository struct {
	db *gorm.DB
}

func NewReimbursementRepository(db *gorm.DB) ReimbursementRepository {
	return &reimbursementRepository{db: db}
}

func (r *reimbursementRepository) Create(ctx context.Context, req *model.ReimbursementRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *reimbursementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ReimbursementRequest, error) {
	var req model.ReimbursementRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *reimbursementRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.ReimbursementRequest, error) {
	var req model.ReimbursementRequest
	if err := GetDB(ctx, r.db).
		Preload("Employee").Preload("RequestType").Preload("Documents").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByManagerAndStatus is the manager's review queue: requests bound to the
// acting manager in the given state, enriched with employee, type, and
// documents. Ordering is fixed so repeated reads return the same sequence.
func (r *reimbursementRepository) ListByManagerAndStatus(ctx context.Context, managerID uuid.UUID, status string, page, limit int) ([]model.ReimbursementRequest, int64, error) {
	var requests []model.ReimbursementRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ReimbursementRequest{}).
		Where("manager_id = ? AND status = ?", managerID, status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Employee").Preload("RequestType").Preload("Documents").
		Where("manager_id = ? AND status = ?", managerID, status).
		Order("created_at DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListByEmployee returns the employee's own submission history with documents.
func (r *reimbursementRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ReimbursementRequest, error) {
	var requests []model.ReimbursementRequest
	err := GetDB(ctx, r.db).
		Preload("RequestType").Preload("Documents").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id ASC").
		Find(&requests).Error
	return requests, err
}

// ListAll backs the admin tracking view across every employee and status.
func (r *reimbursementRepository) ListAll(ctx context.Context, page, limit int) ([]model.ReimbursementRequest, int64, error) {
	var requests []model.ReimbursementRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ReimbursementRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Employee").Preload("RequestType").Preload("Documents").
		Order("created_at DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *reimbursementRepository) Update(ctx context.Context, req *model.ReimbursementRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *reimbursementRepository) CreateDocument(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *reimbursementRepository) FindDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}
