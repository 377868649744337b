package model

import (
	"time"

	"github.com/google/uuid"
)

// WBSCategory enum constants
const (
	WBSCategoryDelivery = "DELIVERY"
	WBSCategorySupport  = "SUPPORT"
	WBSCategoryInternal = "INTERNAL"
	WBSCategoryLeave    = "LEAVE"
)

// WBSElement is the unit of work time entries are logged against.
type WBSElement struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Code      string     `gorm:"type:varchar(50);not null;index" json:"code"`
	Category  string     `gorm:"type:varchar(20);not null;default:'DELIVERY'" json:"category"`
	StartDate *time.Time `gorm:"type:date" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`
	Disabled  bool       `gorm:"not null;default:false" json:"disabled"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WindowContains reports whether [from, to] lies inside the element's own
// window. Unset element bounds are open on that side.
func (w WBSElement) WindowContains(from, to time.Time) bool {
	if w.StartDate != nil && DateOnly(from).Before(DateOnly(*w.StartDate)) {
		return false
	}
	if w.EndDate != nil && DateOnly(to).After(DateOnly(*w.EndDate)) {
		return false
	}
	return true
}

// WBSAllocation entitles a project member to log time against a WBS
// element inside a date window. Time can only be logged on covered days.
type WBSAllocation struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MemberID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"member_id"`
	Member       *ProjectMember `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	WBSElementID uuid.UUID      `gorm:"type:uuid;not null;index" json:"wbs_element_id"`
	WBSElement   *WBSElement    `gorm:"foreignKey:WBSElementID" json:"wbs_element,omitempty"`
	StartDate    *time.Time     `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time     `gorm:"type:date" json:"end_date"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Covers reports whether the allocation entitles logging on the given day.
// Same open/closed bound semantics as ProjectMember.ActiveOn.
func (a WBSAllocation) Covers(day time.Time) bool {
	if !a.Active {
		return false
	}
	d := DateOnly(day)
	if a.StartDate != nil && d.Before(DateOnly(*a.StartDate)) {
		return false
	}
	if a.EndDate != nil && d.After(DateOnly(*a.EndDate)) {
		return false
	}
	return true
}
