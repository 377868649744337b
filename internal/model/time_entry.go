package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the closed set of time-record categories.
type EntryType string

const (
	EntryTypeWork     EntryType = "WORK"
	EntryTypeLeave    EntryType = "LEAVE"
	EntryTypeOvertime EntryType = "OVERTIME"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeWork, EntryTypeLeave, EntryTypeOvertime:
		return true
	}
	return false
}

// EntryStatus is the per-entry state machine:
// DRAFT → SUBMITTED → APPROVED | REJECTED. APPROVED and REJECTED are terminal.
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusSubmitted EntryStatus = "SUBMITTED"
	EntryStatusApproved  EntryStatus = "APPROVED"
	EntryStatusRejected  EntryStatus = "REJECTED"
)

// TimeEntry is one day of hours for one member against one WBS element.
// At most one LEAVE entry may exist per (employee, project, work date),
// enforced by an existence check before creation, not a storage constraint.
type TimeEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	WBSElementID uuid.UUID       `gorm:"type:uuid;not null;index" json:"wbs_element_id"`
	WBSElement   *WBSElement     `gorm:"foreignKey:WBSElementID" json:"wbs_element,omitempty"`
	MemberID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"member_id"`
	Member       *ProjectMember  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	EmployeeID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	WorkDate     time.Time       `gorm:"type:date;not null;index" json:"work_date"`
	Hours        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"hours"`
	EntryType    EntryType       `gorm:"type:varchar(20);not null;default:'WORK';index" json:"entry_type"`
	Status       EntryStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TimeEntryApproval is the append-only decision log. It is evidence of who
// acted, not the state itself; TimeEntry.Status gates transitions.
type TimeEntryApproval struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TimeEntryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"time_entry_id"`
	TimeEntry   *TimeEntry `gorm:"foreignKey:TimeEntryID" json:"time_entry,omitempty"`
	ApproverID  uuid.UUID  `gorm:"type:uuid;not null" json:"approver_id"`
	ApprovedAt  time.Time  `gorm:"not null" json:"approved_at"`
	Note        string     `gorm:"type:text" json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
}
