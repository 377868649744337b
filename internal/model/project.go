package model

import (
	"time"

	"github.com/google/uuid"
)

// Project groups members, WBS elements and time entries. The holiday
// calendar is a weak reference; deleting a calendar never cascades here.
type Project struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string           `gorm:"type:varchar(255);not null" json:"name"`
	Code              string           `gorm:"type:varchar(30);uniqueIndex" json:"code"`
	HolidayCalendarID *uuid.UUID       `gorm:"type:uuid;index" json:"holiday_calendar_id"`
	HolidayCalendar   *HolidayCalendar `gorm:"foreignKey:HolidayCalendarID" json:"holiday_calendar,omitempty"`
	Active            bool             `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProjectMember binds an employee to a project for a date window.
type ProjectMember struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project            *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	EmployeeID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee           *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Role               string     `gorm:"type:varchar(50)" json:"role"`
	ReportingManagerID *uuid.UUID `gorm:"type:uuid" json:"reporting_manager_id"`
	StartDate          *time.Time `gorm:"type:date" json:"start_date"`
	EndDate            *time.Time `gorm:"type:date" json:"end_date"`
	Active             bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ActiveOn reports membership on a given day. Unset bounds are open.
func (m ProjectMember) ActiveOn(day time.Time) bool {
	if !m.Active {
		return false
	}
	d := DateOnly(day)
	if m.StartDate != nil && d.Before(DateOnly(*m.StartDate)) {
		return false
	}
	if m.EndDate != nil && d.After(DateOnly(*m.EndDate)) {
		return false
	}
	return true
}
