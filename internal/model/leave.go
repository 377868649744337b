package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveType is the closed set of leave categories. All types draw on the
// balance ledger; UNPAID additionally feeds payroll's loss-of-pay deduction.
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "ANNUAL"
	LeaveTypeSick      LeaveType = "SICK"
	LeaveTypeCasual    LeaveType = "CASUAL"
	LeaveTypeUnpaid    LeaveType = "UNPAID"
	LeaveTypeMaternity LeaveType = "MATERNITY"
)

// Valid reports whether t is one of the known leave types.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeCasual, LeaveTypeUnpaid, LeaveTypeMaternity:
		return true
	}
	return false
}

// LeaveStatus is the request state machine: REQUESTED → APPROVED | REJECTED,
// both terminal.
type LeaveStatus string

const (
	LeaveStatusRequested LeaveStatus = "REQUESTED"
	LeaveStatusApproved  LeaveStatus = "APPROVED"
	LeaveStatusRejected  LeaveStatus = "REJECTED"
)

// LeaveBalance is the per (employee, business unit, year, type) ledger row.
//
// Allocated and Consumed are HOURS, the same unit as perDayHours × dayCount.
// They are never day counts. Created lazily on first approval, mutated only
// by leave approval, never deleted.
type LeaveBalance struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_balance_key,unique" json:"employee_id"`
	BusinessUnitID uuid.UUID       `gorm:"type:uuid;not null;index:idx_balance_key,unique" json:"business_unit_id"`
	Year           int             `gorm:"not null;index:idx_balance_key,unique" json:"year"`
	LeaveType      LeaveType       `gorm:"type:varchar(20);not null;index:idx_balance_key,unique" json:"leave_type"`
	Allocated      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"allocated"`
	Consumed       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"consumed"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Remaining returns allocated − consumed.
func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Consumed)
}

// LeaveRequest is the employee-filed request. Never deleted; the decided
// rows are the audit trail payroll reads from.
type LeaveRequest struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee       *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	BusinessUnitID uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	LeaveType      LeaveType       `gorm:"type:varchar(20);not null;index" json:"leave_type"`
	FromDate       time.Time       `gorm:"type:date;not null" json:"from_date"`
	ToDate         time.Time       `gorm:"type:date;not null" json:"to_date"` // inclusive
	PerDayHours    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:8.00" json:"per_day_hours"`
	Status         LeaveStatus     `gorm:"type:varchar(20);not null;default:'REQUESTED';index" json:"status"`
	ApproverID     *uuid.UUID      `gorm:"type:uuid" json:"approver_id"`
	Approver       *User           `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	DecisionAt     *time.Time      `json:"decision_at"`
	Note           string          `gorm:"type:text" json:"note"`
	DecisionNote   string          `gorm:"type:text" json:"decision_note"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Days returns the inclusive calendar-day count of the request.
func (r LeaveRequest) Days() int {
	from := DateOnly(r.FromDate)
	to := DateOnly(r.ToDate)
	return int(to.Sub(from).Hours()/24) + 1
}
