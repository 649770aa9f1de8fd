package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reimburse-backend/internal/model"
	"reimburse-backend/internal/repository"

	"github.com/google/uuid"
)

type DepartmentRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type DepartmentResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// DepartmentService is the admin CRUD surface for departments.
type DepartmentService interface {
	Create(ctx context.Context, req DepartmentRequest, actorID uuid.UUID) (*DepartmentResponse, error)
	List(ctx context.Context) ([]DepartmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req DepartmentRequest, actorID uuid.UUID) (*DepartmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

type departmentService struct {
	departments repository.DepartmentRepository
	audit       repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewDepartmentService(departments repository.DepartmentRepository, audit repository.AuditRepository, txManager repository.TransactionManager) DepartmentService {
	return &departmentService{departments: departments, audit: audit, txManager: txManager}
}

func (s *departmentService) Create(ctx context.Context, req DepartmentRequest, actorID uuid.UUID) (*DepartmentResponse, error) {
	department := &model.Department{Name: req.Name}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.departments.Create(txCtx, department); createErr != nil {
			return fmt.Errorf("failed to create department (name must be unique): %w", createErr)
		}
		return s.audit.Create(txCtx, departmentAudit(model.ActionCreateDepartment, department, actorID))
	})
	if err != nil {
		return nil, err
	}

	return &DepartmentResponse{ID: department.ID, Name: department.Name}, nil
}

func (s *departmentService) List(ctx context.Context) ([]DepartmentResponse, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return responses, nil
}

func (s *departmentService) Update(ctx context.Context, id uuid.UUID, req DepartmentRequest, actorID uuid.UUID) (*DepartmentResponse, error) {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("department not found")
	}

	department.Name = req.Name

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.departments.Update(txCtx, department); updateErr != nil {
			return fmt.Errorf("failed to update department: %w", updateErr)
		}
		return s.audit.Create(txCtx, departmentAudit(model.ActionUpdateDepartment, department, actorID))
	})
	if err != nil {
		return nil, err
	}

	return &DepartmentResponse{ID: department.ID, Name: department.Name}, nil
}

func (s *departmentService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return errors.New("department not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.departments.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete department: %w", deleteErr)
		}
		return s.audit.Create(txCtx, departmentAudit(model.ActionDeleteDepartment, department, actorID))
	})
}

func departmentAudit(action string, department *model.Department, actorID uuid.UUID) *model.AuditLog {
	details, _ := json.Marshal(map[string]interface{}{"name": department.Name})
	return &model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   department.ID.String(),
		EntityName: department.Name,
		Details:    string(details),
	}
}
