// formajoy-api/models/teacher.go

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssignmentRecord links a teacher to a course with the price and commission
// captured at assignment time.
type AssignmentRecord struct {
	CourseID          uint      `json:"course"`
	Price             float64   `json:"prix"`
	CommissionPercent float64   `json:"pourcentageProfit"`
	AssignedAt        time.Time `json:"dateAssignation"`
}

// AvailabilitySlot is a weekly time window a teacher can be scheduled in.
type AvailabilitySlot struct {
	Day       string `json:"jour"`
	StartTime string `json:"debut"`
	EndTime   string `json:"fin"`
}

// Teacher represents the teachers table.
type Teacher struct {
	gorm.Model
	LastName  string `json:"nom" gorm:"not null"`
	FirstName string `json:"prenom" gorm:"not null"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"default:enseignant"`
	Phone     string `json:"telephone"`
	Address   string `json:"adresse"`
	Specialty string `json:"specialite"`

	// CommissionPercent is the teacher's standing commission, copied into new
	// assignment records.
	CommissionPercent float64 `json:"pourcentageProfit" gorm:"default:0"`

	Availability    datatypes.JSONSlice[AvailabilitySlot] `json:"heuresDisponibles" gorm:"type:jsonb"`
	SessionsPerWeek int                                   `json:"sessionsParSemaine" gorm:"default:0"`
	Status          string                                `json:"statut" gorm:"default:actif"`

	Assignments datatypes.JSONSlice[AssignmentRecord] `json:"cours" gorm:"type:jsonb"`

	Salary float64 `json:"salaire"`
}

// AssignmentIndex returns the position of the assignment record for the
// course, or -1 when none exists.
func (t *Teacher) AssignmentIndex(courseID uint) int {
	for i, a := range t.Assignments {
		if a.CourseID == courseID {
			return i
		}
	}
	return -1
}
