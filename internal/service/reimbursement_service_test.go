package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reimburse-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reimbursementFixture struct {
	svc      ReimbursementService
	requests *MockReimbursementRepository
	types    *MockRequestTypeRepository
	users    *MockUserRepository
	audit    *MockAuditRepository
	store    *MockDocumentStore
}

func newReimbursementFixture() *reimbursementFixture {
	f := &reimbursementFixture{
		requests: new(MockReimbursementRepository),
		types:    new(MockRequestTypeRepository),
		users:    new(MockUserRepository),
		audit:    new(MockAuditRepository),
		store:    new(MockDocumentStore),
	}
	f.svc = NewReimbursementService(f.requests, f.types, f.users, f.audit, stubTxManager{}, f.store)
	return f
}

func travelType(limit string) *model.RequestType {
	return &model.RequestType{
		ID:          uuid.New(),
		Name:        "Travel",
		AmountLimit: decimal.RequireFromString(limit),
	}
}

func submitInput(typeID uuid.UUID, employeeID uuid.UUID, amount string) SubmitReimbursementInput {
	return SubmitReimbursementInput{
		EmployeeID:    employeeID,
		RequestTypeID: typeID,
		Amount:        decimal.RequireFromString(amount),
		RequestDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		FileName:      "receipt.pdf",
		File:          strings.NewReader("pdf bytes"),
	}
}

func TestSubmit_CreatesPendingWithCopiedManager(t *testing.T) {
	f := newReimbursementFixture()

	requestType := travelType("500.00")
	managerID := uuid.New()
	employee := &model.User{ID: uuid.New(), Role: model.RoleEmployee, Status: model.StatusActive, ManagerID: &managerID}

	f.types.On("FindByID", mock.Anything, requestType.ID).Return(requestType, nil)
	f.users.On("GetByID", mock.Anything, employee.ID).Return(employee, nil)
	f.store.On("Save", mock.AnythingOfType("uuid.UUID"), "receipt.pdf", mock.Anything).Return("stored_receipt.pdf", nil)
	f.requests.On("Create", mock.Anything, mock.MatchedBy(func(r *model.ReimbursementRequest) bool {
		return r.Status == model.RequestPending && r.ManagerID == managerID && r.EmployeeID == employee.ID
	})).Return(nil)
	f.requests.On("CreateDocument", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
		return d.FileName == "receipt.pdf" && d.Path == "stored_receipt.pdf"
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditLog) bool {
		return e.Action == model.ActionSubmitRequest
	})).Return(nil)

	res, err := f.svc.Submit(context.Background(), submitInput(requestType.ID, employee.ID, "120.50"))

	assert.NoError(t, err)
	assert.Equal(t, model.RequestPending, res.Status)
	assert.Equal(t, managerID, res.ManagerID)
	assert.Len(t, res.Documents, 1)
	f.requests.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestSubmit_OverLimitRejectedBeforeAnyWrite(t *testing.T) {
	f := newReimbursementFixture()

	requestType := travelType("100.00")
	f.types.On("FindByID", mock.Anything, requestType.ID).Return(requestType, nil)

	_, err := f.svc.Submit(context.Background(), submitInput(requestType.ID, uuid.New(), "150.00"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "amount exceeds the limit for Travel")
	assert.Contains(t, err.Error(), "100")
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_AmountAtLimitIsAccepted(t *testing.T) {
	f := newReimbursementFixture()

	requestType := travelType("100.00")
	managerID := uuid.New()
	employee := &model.User{ID: uuid.New(), Role: model.RoleEmployee, ManagerID: &managerID}

	f.types.On("FindByID", mock.Anything, requestType.ID).Return(requestType, nil)
	f.users.On("GetByID", mock.Anything, employee.ID).Return(employee, nil)
	f.store.On("Save", mock.AnythingOfType("uuid.UUID"), "receipt.pdf", mock.Anything).Return("stored_receipt.pdf", nil)
	f.requests.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Submit(context.Background(), submitInput(requestType.ID, employee.ID, "100.00"))

	assert.NoError(t, err)
}

func TestSubmit_RequiresAssignedManager(t *testing.T) {
	f := newReimbursementFixture()

	requestType := travelType("500.00")
	employee := &model.User{ID: uuid.New(), Role: model.RoleEmployee}

	f.types.On("FindByID", mock.Anything, requestType.ID).Return(requestType, nil)
	f.users.On("GetByID", mock.Anything, employee.ID).Return(employee, nil)

	_, err := f.svc.Submit(context.Background(), submitInput(requestType.ID, employee.ID, "50.00"))

	assert.EqualError(t, err, "no manager assigned to employee")
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_RemovesBlobWhenTransactionFails(t *testing.T) {
	f := newReimbursementFixture()

	requestType := travelType("500.00")
	managerID := uuid.New()
	employee := &model.User{ID: uuid.New(), Role: model.RoleEmployee, ManagerID: &managerID}

	f.types.On("FindByID", mock.Anything, requestType.ID).Return(requestType, nil)
	f.users.On("GetByID", mock.Anything, employee.ID).Return(employee, nil)
	f.store.On("Save", mock.AnythingOfType("uuid.UUID"), "receipt.pdf", mock.Anything).Return("stored_receipt.pdf", nil)
	f.requests.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	f.store.On("Remove", "stored_receipt.pdf").Return(nil)

	_, err := f.svc.Submit(context.Background(), submitInput(requestType.ID, employee.ID, "50.00"))

	assert.Error(t, err)
	f.store.AssertCalled(t, "Remove", "stored_receipt.pdf")
}

func TestApprove_OnlyBoundManagerMayAct(t *testing.T) {
	f := newReimbursementFixture()

	boundManager := uuid.New()
	request := &model.ReimbursementRequest{ID: uuid.New(), Status: model.RequestPending, ManagerID: boundManager}
	f.requests.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	_, err := f.svc.Approve(context.Background(), request.ID, uuid.New(), "looks fine")

	assert.EqualError(t, err, "reimbursement request is not assigned to you")
	f.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApprove_TransitionsPendingToApproved(t *testing.T) {
	f := newReimbursementFixture()

	managerID := uuid.New()
	request := &model.ReimbursementRequest{ID: uuid.New(), Status: model.RequestPending, ManagerID: managerID}
	f.requests.On("FindByID", mock.Anything, request.ID).Return(request, nil)
	f.requests.On("Update", mock.Anything, mock.MatchedBy(func(r *model.ReimbursementRequest) bool {
		return r.Status == model.RequestApproved && r.Comments == "looks fine"
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditLog) bool {
		return e.Action == model.ActionApproveRequest
	})).Return(nil)

	res, err := f.svc.Approve(context.Background(), request.ID, managerID, "looks fine")

	assert.NoError(t, err)
	assert.Equal(t, model.RequestApproved, res.Status)
	f.requests.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestApprove_RepeatIsNoOp(t *testing.T) {
	f := newReimbursementFixture()

	managerID := uuid.New()
	request := &model.ReimbursementRequest{ID: uuid.New(), Status: model.RequestApproved, ManagerID: managerID, Comments: "first pass"}
	f.requests.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	res, err := f.svc.Approve(context.Background(), request.ID, managerID, "second pass")

	assert.NoError(t, err)
	assert.Equal(t, model.RequestApproved, res.Status)
	assert.Equal(t, "first pass", res.Comments)
	f.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReject_ApprovedRequestIsTerminal(t *testing.T) {
	f := newReimbursementFixture()

	managerID := uuid.New()
	request := &model.ReimbursementRequest{ID: uuid.New(), Status: model.RequestApproved, ManagerID: managerID}
	f.requests.On("FindByID", mock.Anything, request.ID).Return(request, nil)

	_, err := f.svc.Reject(context.Background(), request.ID, managerID, "changed my mind")

	assert.EqualError(t, err, "reimbursement request is already approved")
	f.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListByManager_ValidatesStatusFilter(t *testing.T) {
	f := newReimbursementFixture()

	_, _, err := f.svc.ListByManager(context.Background(), uuid.New(), "archived", 1, 20)

	assert.Error(t, err)
	f.requests.AssertNotCalled(t, "ListByManagerAndStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListByManager_ReturnsQueueForStatus(t *testing.T) {
	f := newReimbursementFixture()

	managerID := uuid.New()
	queue := []model.ReimbursementRequest{
		{ID: uuid.New(), Status: model.RequestPending, ManagerID: managerID, Amount: decimal.RequireFromString("42.00")},
	}
	f.requests.On("ListByManagerAndStatus", mock.Anything, managerID, model.RequestPending, 1, 20).
		Return(queue, int64(1), nil)

	res, total, err := f.svc.ListByManager(context.Background(), managerID, model.RequestPending, 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, res, 1)
	assert.Equal(t, model.RequestPending, res[0].Status)
}

func TestOpenDocument_DeniesUnrelatedUser(t *testing.T) {
	f := newReimbursementFixture()

	document := &model.Document{ID: uuid.New(), RequestID: uuid.New(), FileName: "receipt.pdf", Path: "stored_receipt.pdf"}
	request := &model.ReimbursementRequest{ID: document.RequestID, EmployeeID: uuid.New(), ManagerID: uuid.New()}
	f.requests.On("FindDocument", mock.Anything, document.ID).Return(document, nil)
	f.requests.On("FindByID", mock.Anything, document.RequestID).Return(request, nil)

	_, _, err := f.svc.OpenDocument(context.Background(), document.ID, uuid.New(), model.RoleEmployee)

	assert.EqualError(t, err, "document not found")
	f.store.AssertNotCalled(t, "Open", mock.Anything)
}
