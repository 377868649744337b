package database

import (
	"log"

	"peopleops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.BusinessUnit{},
		&model.Employee{},
		&model.Project{},
		&model.ProjectMember{},
		&model.WBSElement{},
		&model.WBSAllocation{},
		&model.HolidayCalendar{},
		&model.HolidayDay{},
		&model.LeaveBalance{},
		&model.LeaveRequest{},
		&model.TimeEntry{},
		&model.TimeEntryApproval{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
