package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterUser      = "REGISTER_USER"
	ActionApproveUser       = "APPROVE_USER"
	ActionRejectUser        = "REJECT_USER"
	ActionUpdateUser        = "UPDATE_USER"
	ActionDeleteUser        = "DELETE_USER"
	ActionSubmitRequest     = "SUBMIT_REIMBURSEMENT"
	ActionApproveRequest    = "APPROVE_REIMBURSEMENT"
	ActionRejectRequest     = "REJECT_REIMBURSEMENT"
	ActionCreateDepartment  = "CREATE_DEPARTMENT"
	ActionUpdateDepartment  = "UPDATE_DEPARTMENT"
	ActionDeleteDepartment  = "DELETE_DEPARTMENT"
	ActionCreateRequestType = "CREATE_REQUEST_TYPE"
	ActionUpdateRequestType = "UPDATE_REQUEST_TYPE"
	ActionDeleteRequestType = "DELETE_REQUEST_TYPE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for unauthenticated actions (e.g. registration)
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
