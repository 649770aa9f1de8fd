package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"reimburse-backend/internal/model"
	"reimburse-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation
type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required,min=2,max=50"`
	LastName        string `json:"last_name" binding:"required,min=2,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	DepartmentID    string `json:"department_id" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResponse carries the token plus the role-mapped landing destination.
type LoginResponse struct {
	Token    string       `json:"token"`
	Redirect string       `json:"redirect"`
	User     UserResponse `json:"user"`
}

// ApproveUserRequest activates a pending registration. Role is mandatory;
// a manager is mandatory when the role resolves to Employee.
type ApproveUserRequest struct {
	Role      string `json:"role" binding:"required"`
	ManagerID string `json:"manager_id"`
}

// UpdateUserRequest is the explicit allow-list of admin-updatable fields.
// Anything not named here cannot be mutated through the update path.
type UpdateUserRequest struct {
	Role         string `json:"role"`
	ManagerID    string `json:"manager_id"`
	DepartmentID string `json:"department_id"`
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	ManagerID    *uuid.UUID `json:"manager_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Department   string     `json:"department,omitempty"`
	CreatedAt    string     `json:"created_at"`
}

// UserService defines the business logic around accounts: self registration,
// login, and the admin approval/management surface.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	ListPendingUsers(ctx context.Context) ([]UserResponse, error)
	ListManagers(ctx context.Context) ([]UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	ApproveUser(ctx context.Context, id uuid.UUID, req ApproveUserRequest, actorID uuid.UUID) (*UserResponse, error)
	RejectUser(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest, actorID uuid.UUID) (*UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

// Broadcaster pushes events to connected dashboard clients. Satisfied by the
// websocket hub; nil disables pushes.
type Broadcaster interface {
	GetBroadcast() chan []byte
}

type userService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	audit         repository.AuditRepository
	txManager     repository.TransactionManager
	hub           Broadcaster
}

// NewUserService returns a new instance of UserService
func NewUserService(users repository.UserRepository, notifications repository.NotificationRepository, audit repository.AuditRepository, txManager repository.TransactionManager, hub Broadcaster) UserService {
	return &userService{
		users:         users,
		notifications: notifications,
		audit:         audit,
		txManager:     txManager,
		hub:           hub,
	}
}

// OrgEmailDomain returns the organizational email domain accounts must use.
func OrgEmailDomain() string {
	if domain := os.Getenv("ORG_EMAIL_DOMAIN"); domain != "" {
		return domain
	}
	return "@nucleusteq.com"
}

// Post-login landing destination per role.
var landingRoutes = map[string]string{
	model.RoleAdmin:    "/admin/dashboard",
	model.RoleEmployee: "/employee/dashboard",
	model.RoleManager:  "/manager/dashboard",
}

func mapUserToResponse(user *model.User) *UserResponse {
	res := &UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Role:         user.Role,
		Status:       user.Status,
		ManagerID:    user.ManagerID,
		DepartmentID: user.DepartmentID,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
	if user.Department != nil {
		res.Department = user.Department.Name
	}
	return res
}

// Register creates a new account awaiting admin approval. Role and status are
// forced to pending/inactive regardless of anything the caller submits; every
// active admin receives a notification in the same transaction.
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if !strings.HasSuffix(req.Email, OrgEmailDomain()) {
		return nil, errors.New("invalid email domain")
	}
	if req.Password != req.ConfirmPassword {
		return nil, errors.New("passwords do not match")
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, errors.New("invalid department")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     string(hashedPassword),
		Role:         model.RolePending,
		Status:       model.StatusInactive,
		DepartmentID: &departmentID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.users.Create(txCtx, user); createErr != nil {
			return fmt.Errorf("failed to create user: %w", createErr)
		}

		admins, listErr := s.users.ListActiveAdmins(txCtx)
		if listErr != nil {
			return fmt.Errorf("failed to resolve notification recipients: %w", listErr)
		}
		for _, admin := range admins {
			notification := &model.Notification{
				UserID:  admin.ID,
				Message: "New user registration pending approval: " + user.Email,
			}
			if notifyErr := s.notifications.Create(txCtx, notification); notifyErr != nil {
				return fmt.Errorf("failed to create notification: %w", notifyErr)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{"email": user.Email})
		entry := &model.AuditLog{
			Action:     model.ActionRegisterUser,
			EntityID:   user.ID.String(),
			EntityName: user.Email,
			Details:    string(details),
		}
		return s.audit.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastEvent("user_registered", map[string]interface{}{"email": user.Email})

	return mapUserToResponse(user), nil
}

// Login authenticates against the org domain and account status, then issues
// a signed token. Deleted, unknown/bad-credential, and not-yet-activated
// accounts each get their own message.
func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if !strings.HasSuffix(req.Email, OrgEmailDomain()) {
		return nil, errors.New("invalid email domain")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if user.Status == model.StatusDeleted {
		return nil, errors.New("user is deleted")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	if user.Status == model.StatusInactive {
		return nil, errors.New("your account is not yet activated")
	}

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	if user.ManagerID != nil {
		claims["manager_id"] = user.ManagerID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:    tokenString,
		Redirect: landingRoutes[user.Role],
		User:     *mapUserToResponse(user),
	}, nil
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}
	return []byte(secret)
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapUserToResponse(user), nil
}

func (s *userService) ListPendingUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.ListByRole(ctx, model.RolePending)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserToResponse(&u))
	}
	return responses, nil
}

func (s *userService) ListManagers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.ListManagers(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserToResponse(&u))
	}
	return responses, nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.ListManaged(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserToResponse(&u))
	}
	return responses, total, nil
}

// ApproveUser activates a pending registration with the given role. The role
// string is normalized through the closed role set; Employee additionally
// requires a manager. The user stays pending on any validation failure.
func (s *userService) ApproveUser(ctx context.Context, id uuid.UUID, req ApproveUserRequest, actorID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if user.Role != model.RolePending {
		return nil, errors.New("user is not awaiting approval")
	}

	role, err := model.NormalizeRole(req.Role)
	if err != nil {
		return nil, err
	}

	var managerID *uuid.UUID
	if role == model.RoleEmployee {
		if req.ManagerID == "" {
			return nil, errors.New("manager is mandatory for employee role")
		}
		parsed, parseErr := uuid.Parse(req.ManagerID)
		if parseErr != nil {
			return nil, errors.New("invalid manager id")
		}
		managerID = &parsed
	}

	user.Role = role
	user.Status = model.StatusActive
	if managerID != nil {
		user.ManagerID = managerID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.users.Update(txCtx, user); updateErr != nil {
			return fmt.Errorf("failed to approve user: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": role})
		entry := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionApproveUser,
			EntityID:   user.ID.String(),
			EntityName: user.Email,
			Details:    string(details),
		}
		return s.audit.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	return mapUserToResponse(user), nil
}

// RejectUser removes a pending registration outright. This is the only path
// that hard-deletes a user row.
func (s *userService) RejectUser(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}

	if user.Role != model.RolePending {
		return errors.New("only pending registrations can be rejected")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.users.HardDelete(txCtx, id); deleteErr != nil {
			return fmt.Errorf("failed to reject user: %w", deleteErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"email": user.Email})
		entry := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionRejectUser,
			EntityID:   user.ID.String(),
			EntityName: user.Email,
			Details:    string(details),
		}
		return s.audit.Create(txCtx, entry)
	})
}

// UpdateUser mutates only the allow-listed fields: role, manager, department.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest, actorID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Role != "" {
		role, roleErr := model.NormalizeRole(req.Role)
		if roleErr != nil {
			return nil, roleErr
		}
		user.Role = role
	}

	if req.ManagerID != "" {
		managerID, parseErr := uuid.Parse(req.ManagerID)
		if parseErr != nil {
			return nil, errors.New("invalid manager id")
		}
		user.ManagerID = &managerID
	}

	if req.DepartmentID != "" {
		departmentID, parseErr := uuid.Parse(req.DepartmentID)
		if parseErr != nil {
			return nil, errors.New("invalid department id")
		}
		user.DepartmentID = &departmentID
	}

	if user.Role == model.RoleEmployee && user.ManagerID == nil {
		return nil, errors.New("manager is mandatory for employee role")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.users.Update(txCtx, user); updateErr != nil {
			return fmt.Errorf("failed to update user: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": user.Role})
		entry := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionUpdateUser,
			EntityID:   user.ID.String(),
			EntityName: user.Email,
			Details:    string(details),
		}
		return s.audit.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	return mapUserToResponse(user), nil
}

// DeleteUser soft-deletes by status; the row stays for referential history.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}

	user.Status = model.StatusDeleted

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.users.Update(txCtx, user); updateErr != nil {
			return fmt.Errorf("failed to delete user: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"email": user.Email})
		entry := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionDeleteUser,
			EntityID:   user.ID.String(),
			EntityName: user.Email,
			Details:    string(details),
		}
		return s.audit.Create(txCtx, entry)
	})
}

func (s *userService) broadcastEvent(event string, payload map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload["type"] = event
	message, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case s.hub.GetBroadcast() <- message:
	default:
		// Hub not draining; drop rather than block the request.
	}
}
