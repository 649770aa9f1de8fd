package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the reimbursement workflow. New registrations
// start as role=pending / status=inactive until an admin approves them.
// Deleted users keep their row with status=deleted; only the rejection of a
// still-pending registration removes the row outright.
type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName    string      `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName     string      `gorm:"type:varchar(50);not null" json:"last_name"`
	Email        string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Role         string      `gorm:"type:varchar(50);not null;index" json:"role"`
	Status       string      `gorm:"type:varchar(20);not null;index" json:"status"`
	ManagerID    *uuid.UUID  `gorm:"type:uuid;index" json:"manager_id"` // required when Role=Employee
	Manager      *User       `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Department groups users; referenced by User.DepartmentID.
type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}
