// formajoy-api/models/student.go

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentRecord is the embedded snapshot of one course enrollment. Price
// is fixed at enroll time, after the student's promotion has been applied;
// the course side only holds a back-reference id, never the price.
type EnrollmentRecord struct {
	CourseID   uint      `json:"course"`
	Price      float64   `json:"prix"`
	EnrolledAt time.Time `json:"dateInscription"`
}

// Student represents the students table.
type Student struct {
	gorm.Model
	LastName  string     `json:"nom" gorm:"not null"`
	FirstName string     `json:"prenom" gorm:"not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Password  string     `json:"-"`
	Role      string     `json:"role" gorm:"default:etudiant"`
	Phone     string     `json:"telephone"`
	Address   string     `json:"adresse"`
	BirthDate *time.Time `json:"dateNaissance"`

	// PromotionPercent is the individual discount (0-100) applied once, when
	// an enrollment price snapshot is taken.
	PromotionPercent float64 `json:"promotionApplicable" gorm:"default:0"`

	Enrollments datatypes.JSONSlice[EnrollmentRecord] `json:"cours" gorm:"type:jsonb"`

	// TotalOwed is derived: always the sum of the enrollment snapshots.
	TotalOwed float64 `json:"montantTotal" gorm:"default:0"`

	AttendanceIDs datatypes.JSONSlice[uint] `json:"presences" gorm:"type:jsonb"`
}

// EnrollmentPrices extracts the snapshot prices for total computation.
func (s *Student) EnrollmentPrices() []float64 {
	prices := make([]float64, 0, len(s.Enrollments))
	for _, e := range s.Enrollments {
		prices = append(prices, e.Price)
	}
	return prices
}

// EnrolledIn reports whether the student already has a record for the course.
func (s *Student) EnrolledIn(courseID uint) bool {
	for _, e := range s.Enrollments {
		if e.CourseID == courseID {
			return true
		}
	}
	return false
}
