package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"reimburse-backend/internal/model"
	"reimburse-backend/internal/repository"
	"reimburse-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitReimbursementInput is the employee's submission: a typed request
// against a reimbursement category plus exactly one supporting document.
type SubmitReimbursementInput struct {
	EmployeeID    uuid.UUID
	RequestTypeID uuid.UUID
	Amount        decimal.Decimal
	RequestDate   time.Time
	FileName      string
	File          io.Reader
}

type DocumentResponse struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
	Path     string    `json:"path"`
}

type ReimbursementResponse struct {
	ID           uuid.UUID          `json:"id"`
	EmployeeID   uuid.UUID          `json:"employee_id"`
	EmployeeName string             `json:"employee_name,omitempty"`
	RequestType  string             `json:"request_type,omitempty"`
	Amount       decimal.Decimal    `json:"amount"`
	RequestDate  string             `json:"request_date"`
	Status       string             `json:"status"`
	Comments     string             `json:"comments"`
	ManagerID    uuid.UUID          `json:"manager_id"`
	Documents    []DocumentResponse `json:"documents"`
	CreatedAt    string             `json:"created_at"`
}

// ReimbursementService governs the request lifecycle:
// pending -> approved | rejected, with no transition out of a terminal state.
// Approval authority is fixed to the manager captured at submission time.
type ReimbursementService interface {
	Submit(ctx context.Context, input SubmitReimbursementInput) (*ReimbursementResponse, error)
	Approve(ctx context.Context, id uuid.UUID, managerID uuid.UUID, comments string) (*ReimbursementResponse, error)
	Reject(ctx context.Context, id uuid.UUID, managerID uuid.UUID, comments string) (*ReimbursementResponse, error)
	ListByManager(ctx context.Context, managerID uuid.UUID, status string, page, limit int) ([]ReimbursementResponse, int64, error)
	History(ctx context.Context, employeeID uuid.UUID) ([]ReimbursementResponse, error)
	ListAll(ctx context.Context, page, limit int) ([]ReimbursementResponse, int64, error)
	OpenDocument(ctx context.Context, documentID uuid.UUID, actorID uuid.UUID, actorRole string) (io.ReadCloser, string, error)
}

type reimbursementService struct {
	requests  repository.ReimbursementRepository
	types     repository.RequestTypeRepository
	users     repository.UserRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	store     storage.DocumentStore
}

func NewReimbursementService(requests repository.ReimbursementRepository, types repository.RequestTypeRepository, users repository.UserRepository, audit repository.AuditRepository, txManager repository.TransactionManager, store storage.DocumentStore) ReimbursementService {
	return &reimbursementService{
		requests:  requests,
		types:     types,
		users:     users,
		audit:     audit,
		txManager: txManager,
		store:     store,
	}
}

func mapRequestToResponse(req *model.ReimbursementRequest) *ReimbursementResponse {
	res := &ReimbursementResponse{
		ID:          req.ID,
		EmployeeID:  req.EmployeeID,
		Amount:      req.Amount,
		RequestDate: req.RequestDate.Format("2006-01-02"),
		Status:      req.Status,
		Comments:    req.Comments,
		ManagerID:   req.ManagerID,
		Documents:   make([]DocumentResponse, 0, len(req.Documents)),
		CreatedAt:   req.CreatedAt.Format(time.RFC3339),
	}
	if req.Employee != nil {
		res.EmployeeName = req.Employee.FirstName + " " + req.Employee.LastName
	}
	if req.RequestType != nil {
		res.RequestType = req.RequestType.Name
	}
	for _, doc := range req.Documents {
		res.Documents = append(res.Documents, DocumentResponse{
			ID:       doc.ID,
			FileName: doc.FileName,
			Path:     doc.Path,
		})
	}
	return res
}

// Submit validates the amount against the category limit, stores the
// supporting document, and creates the request with status=pending and the
// manager copied from the submitting employee. The request row, document row,
// and audit entry commit as one transaction; the stored blob is removed again
// if the transaction fails so nothing dangles.
func (s *reimbursementService) Submit(ctx context.Context, input SubmitReimbursementInput) (*ReimbursementResponse, error) {
	requestType, err := s.types.FindByID(ctx, input.RequestTypeID)
	if err != nil {
		return nil, errors.New("invalid request type")
	}

	if input.Amount.GreaterThan(requestType.AmountLimit) {
		return nil, fmt.Errorf("amount exceeds the limit for %s: limit %s", requestType.Name, requestType.AmountLimit.String())
	}

	employee, err := s.users.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return nil, errors.New("employee not found")
	}
	if employee.ManagerID == nil {
		return nil, errors.New("no manager assigned to employee")
	}

	if input.File == nil || input.FileName == "" {
		return nil, errors.New("a supporting document is required")
	}

	request := &model.ReimbursementRequest{
		ID:            uuid.New(),
		EmployeeID:    employee.ID,
		RequestTypeID: requestType.ID,
		Amount:        input.Amount,
		RequestDate:   input.RequestDate,
		Status:        model.RequestPending,
		ManagerID:     *employee.ManagerID,
	}

	storedName, err := s.store.Save(request.ID, input.FileName, input.File)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	document := &model.Document{
		RequestID: request.ID,
		FileName:  input.FileName,
		Path:      storedName,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requests.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create reimbursement request: %w", createErr)
		}
		if docErr := s.requests.CreateDocument(txCtx, document); docErr != nil {
			return fmt.Errorf("failed to create document record: %w", docErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_type": requestType.Name,
			"amount":       input.Amount.String(),
		})
		entry := &model.AuditLog{
			UserID:     &employee.ID,
			Action:     model.ActionSubmitRequest,
			EntityID:   request.ID.String(),
			EntityName: requestType.Name,
			Details:    string(details),
		}
		return s.audit.Create(txCtx, entry)
	})
	if err != nil {
		// The DB writes rolled back together; drop the blob too.
		_ = s.store.Remove(storedName)
		return nil, err
	}

	request.Documents = []model.Document{*document}
	request.RequestType = requestType
	return mapRequestToResponse(request), nil
}

// Approve moves a pending request to approved and records the comment.
func (s *reimbursementService) Approve(ctx context.Context, id uuid.UUID, managerID uuid.UUID, comments string) (*ReimbursementResponse, error) {
	return s.transition(ctx, id, managerID, comments, model.RequestApproved, model.ActionApproveRequest)
}

// Reject moves a pending request to rejected and records the comment.
func (s *reimbursementService) Reject(ctx context.Context, id uuid.UUID, managerID uuid.UUID, comments string) (*ReimbursementResponse, error) {
	return s.transition(ctx, id, managerID, comments, model.RequestRejected, model.ActionRejectRequest)
}

// transition enforces the state machine: only the bound manager may act,
// repeating an already-applied terminal action is an idempotent no-op, and
// crossing between terminal states is an invalid transition.
func (s *reimbursementService) transition(ctx context.Context, id uuid.UUID, managerID uuid.UUID, comments, target, action string) (*ReimbursementResponse, error) {
	var request *model.ReimbursementRequest

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, findErr := s.requests.FindByID(txCtx, id)
		if findErr != nil {
			return errors.New("reimbursement request not found")
		}

		if found.ManagerID != managerID {
			return errors.New("reimbursement request is not assigned to you")
		}

		if found.Status == target {
			// Already in the requested terminal state: nothing to do.
			request = found
			return nil
		}

		if found.IsTerminal() {
			return fmt.Errorf("reimbursement request is already %s", found.Status)
		}

		found.Status = target
		found.Comments = comments
		if updateErr := s.requests.Update(txCtx, found); updateErr != nil {
			return fmt.Errorf("failed to update reimbursement request: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"status":   target,
			"comments": comments,
		})
		entry := &model.AuditLog{
			UserID:   &managerID,
			Action:   action,
			EntityID: found.ID.String(),
			Details:  string(details),
		}
		if auditErr := s.audit.Create(txCtx, entry); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		request = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapRequestToResponse(request), nil
}

func (s *reimbursementService) ListByManager(ctx context.Context, managerID uuid.UUID, status string, page, limit int) ([]ReimbursementResponse, int64, error) {
	switch status {
	case model.RequestPending, model.RequestApproved, model.RequestRejected:
	default:
		return nil, 0, fmt.Errorf("invalid status filter %q", status)
	}

	requests, total, err := s.requests.ListByManagerAndStatus(ctx, managerID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReimbursementResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *mapRequestToResponse(&requests[i]))
	}
	return responses, total, nil
}

func (s *reimbursementService) History(ctx context.Context, employeeID uuid.UUID) ([]ReimbursementResponse, error) {
	requests, err := s.requests.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReimbursementResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *mapRequestToResponse(&requests[i]))
	}
	return responses, nil
}

func (s *reimbursementService) ListAll(ctx context.Context, page, limit int) ([]ReimbursementResponse, int64, error) {
	requests, total, err := s.requests.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReimbursementResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *mapRequestToResponse(&requests[i]))
	}
	return responses, total, nil
}

// OpenDocument streams a stored blob to callers with a claim on it: the
// submitting employee, the bound manager, or an admin.
func (s *reimbursementService) OpenDocument(ctx context.Context, documentID uuid.UUID, actorID uuid.UUID, actorRole string) (io.ReadCloser, string, error) {
	document, err := s.requests.FindDocument(ctx, documentID)
	if err != nil {
		return nil, "", errors.New("document not found")
	}

	request, err := s.requests.FindByID(ctx, document.RequestID)
	if err != nil {
		return nil, "", errors.New("document not found")
	}

	allowed := actorRole == model.RoleAdmin ||
		request.EmployeeID == actorID ||
		request.ManagerID == actorID
	if !allowed {
		return nil, "", errors.New("document not found")
	}

	reader, err := s.store.Open(document.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open document: %w", err)
	}
	return reader, document.FileName, nil
}
