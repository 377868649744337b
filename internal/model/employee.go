package model

import (
	"time"

	"github.com/google/uuid"
)

// BusinessUnit scopes employees and their leave balances
type BusinessUnit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Employee is the HR identity time and leave are tracked against.
// Login credentials live on User; an Employee may exist without a login.
type Employee struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName       string        `gorm:"type:varchar(255);not null" json:"full_name"`
	Email          string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	BusinessUnitID uuid.UUID     `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	BusinessUnit   *BusinessUnit `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
	Active         bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
