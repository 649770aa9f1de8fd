package service

import (
	"context"
	"testing"

	"reimburse-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserServiceForTest() (UserService, *MockUserRepository, *MockNotificationRepository, *MockAuditRepository) {
	users := new(MockUserRepository)
	notifications := new(MockNotificationRepository)
	audit := new(MockAuditRepository)
	svc := NewUserService(users, notifications, audit, stubTxManager{}, nil)
	return svc, users, notifications, audit
}

func hashPassword(t *testing.T, raw string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestRegister_ForcesPendingInactive(t *testing.T) {
	svc, users, notifications, audit := newUserServiceForTest()

	adminA := model.User{ID: uuid.New(), Role: model.RoleAdmin, Status: model.StatusActive}
	adminB := model.User{ID: uuid.New(), Role: model.RoleAdmin, Status: model.StatusActive}

	users.On("GetByEmail", mock.Anything, "jane.doe@nucleusteq.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RolePending && u.Status == model.StatusInactive
	})).Return(nil)
	users.On("ListActiveAdmins", mock.Anything).Return([]model.User{adminA, adminB}, nil)
	notifications.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)
	audit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	res, err := svc.Register(context.Background(), RegisterRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane.doe@nucleusteq.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		DepartmentID:    uuid.New().String(),
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RolePending, res.Role)
	assert.Equal(t, model.StatusInactive, res.Status)
	// One notification per active admin.
	notifications.AssertNumberOfCalls(t, "Create", 2)
	users.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestRegister_RejectsForeignDomain(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane.doe@gmail.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		DepartmentID:    uuid.New().String(),
	})

	assert.EqualError(t, err, "invalid email domain")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	existing := &model.User{ID: uuid.New(), Email: "jane.doe@nucleusteq.com"}
	users.On("GetByEmail", mock.Anything, "jane.doe@nucleusteq.com").Return(existing, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane.doe@nucleusteq.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		DepartmentID:    uuid.New().String(),
	})

	assert.EqualError(t, err, "email already registered")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_StatusAndCredentialMessages(t *testing.T) {
	hashed := hashPassword(t, "secret123")

	tests := []struct {
		name     string
		user     *model.User
		userErr  error
		password string
		wantErr  string
	}{
		{
			name:     "unknown email",
			userErr:  gorm.ErrRecordNotFound,
			password: "secret123",
			wantErr:  "invalid email or password",
		},
		{
			name:     "deleted account",
			user:     &model.User{Password: hashed, Status: model.StatusDeleted},
			password: "secret123",
			wantErr:  "user is deleted",
		},
		{
			name:     "wrong password",
			user:     &model.User{Password: hashed, Status: model.StatusActive},
			password: "wrongpass",
			wantErr:  "invalid email or password",
		},
		{
			name:     "not yet activated",
			user:     &model.User{Password: hashed, Status: model.StatusInactive, Role: model.RolePending},
			password: "secret123",
			wantErr:  "your account is not yet activated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, _ := newUserServiceForTest()
			users.On("GetByEmail", mock.Anything, "jane.doe@nucleusteq.com").Return(tt.user, tt.userErr)

			_, err := svc.Login(context.Background(), LoginRequest{
				Email:    "jane.doe@nucleusteq.com",
				Password: tt.password,
			})

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLogin_RejectsForeignDomainWithoutLookup(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane.doe@gmail.com",
		Password: "secret123",
	})

	assert.EqualError(t, err, "invalid email domain")
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogin_RedirectsByRole(t *testing.T) {
	hashed := hashPassword(t, "secret123")

	tests := []struct {
		role     string
		redirect string
	}{
		{model.RoleAdmin, "/admin/dashboard"},
		{model.RoleManager, "/manager/dashboard"},
		{model.RoleEmployee, "/employee/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			svc, users, _, _ := newUserServiceForTest()
			managerID := uuid.New()
			user := &model.User{
				ID:       uuid.New(),
				Email:    "jane.doe@nucleusteq.com",
				Password: hashed,
				Role:     tt.role,
				Status:   model.StatusActive,
			}
			if tt.role == model.RoleEmployee {
				user.ManagerID = &managerID
			}
			users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

			res, err := svc.Login(context.Background(), LoginRequest{
				Email:    user.Email,
				Password: "secret123",
			})

			assert.NoError(t, err)
			assert.NotEmpty(t, res.Token)
			assert.Equal(t, tt.redirect, res.Redirect)
		})
	}
}

func TestApproveUser_EmployeeRequiresManager(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	pending := &model.User{ID: uuid.New(), Role: model.RolePending, Status: model.StatusInactive}
	users.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)

	_, err := svc.ApproveUser(context.Background(), pending.ID, ApproveUserRequest{Role: "employee"}, uuid.New())

	assert.EqualError(t, err, "manager is mandatory for employee role")
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApproveUser_ActivatesWithRoleAndManager(t *testing.T) {
	svc, users, _, audit := newUserServiceForTest()

	pending := &model.User{ID: uuid.New(), Email: "jane.doe@nucleusteq.com", Role: model.RolePending, Status: model.StatusInactive}
	managerID := uuid.New()
	users.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleEmployee &&
			u.Status == model.StatusActive &&
			u.ManagerID != nil && *u.ManagerID == managerID
	})).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditLog) bool {
		return e.Action == model.ActionApproveUser
	})).Return(nil)

	res, err := svc.ApproveUser(context.Background(), pending.ID, ApproveUserRequest{
		Role:      "employee",
		ManagerID: managerID.String(),
	}, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, res.Role)
	assert.Equal(t, model.StatusActive, res.Status)
	users.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestApproveUser_RejectsUnknownRole(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	pending := &model.User{ID: uuid.New(), Role: model.RolePending}
	users.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)

	_, err := svc.ApproveUser(context.Background(), pending.ID, ApproveUserRequest{Role: "superuser"}, uuid.New())

	assert.Error(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApproveUser_OnlyPending(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	active := &model.User{ID: uuid.New(), Role: model.RoleEmployee, Status: model.StatusActive}
	users.On("GetByID", mock.Anything, active.ID).Return(active, nil)

	_, err := svc.ApproveUser(context.Background(), active.ID, ApproveUserRequest{Role: "manager"}, uuid.New())

	assert.EqualError(t, err, "user is not awaiting approval")
}

func TestRejectUser_HardDeletesPendingOnly(t *testing.T) {
	svc, users, _, audit := newUserServiceForTest()

	pending := &model.User{ID: uuid.New(), Email: "jane.doe@nucleusteq.com", Role: model.RolePending}
	users.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)
	users.On("HardDelete", mock.Anything, pending.ID).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.AuditLog) bool {
		return e.Action == model.ActionRejectUser
	})).Return(nil)

	err := svc.RejectUser(context.Background(), pending.ID, uuid.New())

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestRejectUser_RefusesNonPending(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	active := &model.User{ID: uuid.New(), Role: model.RoleManager, Status: model.StatusActive}
	users.On("GetByID", mock.Anything, active.ID).Return(active, nil)

	err := svc.RejectUser(context.Background(), active.ID, uuid.New())

	assert.EqualError(t, err, "only pending registrations can be rejected")
	users.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestDeleteUser_SoftDeletesByStatus(t *testing.T) {
	svc, users, _, audit := newUserServiceForTest()

	employee := &model.User{ID: uuid.New(), Role: model.RoleEmployee, Status: model.StatusActive}
	users.On("GetByID", mock.Anything, employee.ID).Return(employee, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Status == model.StatusDeleted
	})).Return(nil)
	audit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	err := svc.DeleteUser(context.Background(), employee.ID, uuid.New())

	assert.NoError(t, err)
	users.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestUpdateUser_EmployeeMustKeepManager(t *testing.T) {
	svc, users, _, _ := newUserServiceForTest()

	user := &model.User{ID: uuid.New(), Role: model.RoleManager, Status: model.StatusActive}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserRequest{Role: "employee"}, uuid.New())

	assert.EqualError(t, err, "manager is mandatory for employee role")
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
