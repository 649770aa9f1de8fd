package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestType is a reimbursement category with a maximum claimable amount.
// The limit is checked once at submission time; raising or lowering it later
// does not touch existing requests.
type RequestType struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	AmountLimit decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount_limit"`
}
