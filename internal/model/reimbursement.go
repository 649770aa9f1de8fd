package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reimbursement request lifecycle. pending is the only non-terminal state;
// no transition is defined out of approved or rejected.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ReimbursementRequest is an employee's claim against a RequestType budget.
// ManagerID is copied from the employee at submission time and fixes approval
// authority regardless of later manager reassignment. Rows are never deleted.
type ReimbursementRequest struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee      *User           `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	RequestTypeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"request_type_id"`
	RequestType   *RequestType    `gorm:"foreignKey:RequestTypeID" json:"request_type,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	RequestDate   time.Time       `gorm:"type:date;not null" json:"request_date"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Comments      string          `gorm:"type:text" json:"comments"` // set at the terminal transition
	ManagerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"manager_id"`
	Manager       *User           `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Documents     []Document      `gorm:"foreignKey:RequestID" json:"documents,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsTerminal reports whether no further status transition is defined.
func (r *ReimbursementRequest) IsTerminal() bool {
	return r.Status == RequestApproved || r.Status == RequestRejected
}

// Document is a supporting file attached to a request at submission.
// Immutable after creation; always owned by exactly one request.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"` // original upload name
	Path      string    `gorm:"type:varchar(255);not null" json:"path"`      // stored name in the blob store
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
