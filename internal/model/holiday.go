package model

import (
	"time"

	"github.com/google/uuid"
)

// HolidayCalendar owns a set of dated holidays. Projects reference a
// calendar to suppress leave materialization on holidays.
type HolidayCalendar struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Region    string    `gorm:"type:varchar(100)" json:"region"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HolidayDay is a single dated entry in a calendar.
type HolidayDay struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CalendarID uuid.UUID        `gorm:"type:uuid;not null;index" json:"calendar_id"`
	Calendar   *HolidayCalendar `gorm:"foreignKey:CalendarID" json:"calendar,omitempty"`
	Date       time.Time        `gorm:"type:date;not null;index" json:"date"`
	Name       string           `gorm:"type:varchar(255);not null" json:"name"`
	IsOptional bool             `gorm:"not null;default:false" json:"is_optional"`
	CreatedAt  time.Time        `json:"created_at"`
}
