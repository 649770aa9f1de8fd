package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"reimburse-backend/internal/model"
	"reimburse-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RequestTypeRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=50"`
	AmountLimit decimal.Decimal `json:"amount_limit" binding:"required"`
}

type RequestTypeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	AmountLimit decimal.Decimal `json:"amount_limit"`
}

// RequestTypeService manages reimbursement categories and their limits.
// Limit changes are prospective only: already-submitted requests were
// validated against the limit in force at their submission time.
type RequestTypeService interface {
	Create(ctx context.Context, req RequestTypeRequest, actorID uuid.UUID) (*RequestTypeResponse, error)
	List(ctx context.Context) ([]RequestTypeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req RequestTypeRequest, actorID uuid.UUID) (*RequestTypeResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

type requestTypeService struct {
	types     repository.RequestTypeRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
}

func NewRequestTypeService(types repository.RequestTypeRepository, audit repository.AuditRepository, txManager repository.TransactionManager) RequestTypeService {
	return &requestTypeService{types: types, audit: audit, txManager: txManager}
}

func (s *requestTypeService) Create(ctx context.Context, req RequestTypeRequest, actorID uuid.UUID) (*RequestTypeResponse, error) {
	if req.AmountLimit.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("amount limit must be positive")
	}

	requestType := &model.RequestType{Name: req.Name, AmountLimit: req.AmountLimit}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.types.Create(txCtx, requestType); createErr != nil {
			return fmt.Errorf("failed to create request type (name must be unique): %w", createErr)
		}
		return s.audit.Create(txCtx, requestTypeAudit(model.ActionCreateRequestType, requestType, actorID))
	})
	if err != nil {
		return nil, err
	}

	return mapRequestTypeToResponse(requestType), nil
}

func (s *requestTypeService) List(ctx context.Context) ([]RequestTypeResponse, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]RequestTypeResponse, 0, len(types))
	for i := range types {
		responses = append(responses, *mapRequestTypeToResponse(&types[i]))
	}
	return responses, nil
}

func (s *requestTypeService) Update(ctx context.Context, id uuid.UUID, req RequestTypeRequest, actorID uuid.UUID) (*RequestTypeResponse, error) {
	if req.AmountLimit.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("amount limit must be positive")
	}

	requestType, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("request type not found")
	}

	requestType.Name = req.Name
	requestType.AmountLimit = req.AmountLimit

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.types.Update(txCtx, requestType); updateErr != nil {
			return fmt.Errorf("failed to update request type: %w", updateErr)
		}
		return s.audit.Create(txCtx, requestTypeAudit(model.ActionUpdateRequestType, requestType, actorID))
	})
	if err != nil {
		return nil, err
	}

	return mapRequestTypeToResponse(requestType), nil
}

func (s *requestTypeService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	requestType, err := s.types.FindByID(ctx, id)
	if err != nil {
		return errors.New("request type not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.types.Delete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to delete request type: %w", deleteErr)
		}
		return s.audit.Create(txCtx, requestTypeAudit(model.ActionDeleteRequestType, requestType, actorID))
	})
}

func mapRequestTypeToResponse(rt *model.RequestType) *RequestTypeResponse {
	return &RequestTypeResponse{ID: rt.ID, Name: rt.Name, AmountLimit: rt.AmountLimit}
}

func requestTypeAudit(action string, rt *model.RequestType, actorID uuid.UUID) *model.AuditLog {
	details, _ := json.Marshal(map[string]interface{}{
		"name":         rt.Name,
		"amount_limit": rt.AmountLimit.String(),
	})
	return &model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   rt.ID.String(),
		EntityName: rt.Name,
		Details:    string(details),
	}
}
