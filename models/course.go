// formajoy-api/models/course.go

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course statuses (wire values, French).
const (
	CourseStatusPlanned    = "planifié"
	CourseStatusInProgress = "en cours"
	CourseStatusDone       = "terminé"
)

// ScheduleSlot is a recurring weekly time window of a course.
type ScheduleSlot struct {
	Day       string `json:"jour"`
	StartTime string `json:"heureDebut"`
	EndTime   string `json:"heureFin"`
}

// Course represents the courses table. The roster arrays are the inverse side
// of relations owned elsewhere: enrollment prices live on students, session
// details on sessions. Invariant: EnrolledStudentIDs is exactly the set of
// students whose enrollment list references this course, and symmetrically
// for participants.
type Course struct {
	gorm.Model
	Name        string  `json:"nom" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"prix"`

	// OrgPrice is the special per-seat price offered to partner organizations.
	OrgPrice float64 `json:"prixSpecialOrganisation"`

	DurationHours int        `json:"dureeHeures"`
	StartDate     *time.Time `json:"dateDebut"`
	EndDate       *time.Time `json:"dateFin"`

	Schedule datatypes.JSONSlice[ScheduleSlot] `json:"horaire" gorm:"type:jsonb"`
	Room     string                            `json:"salle"`

	TeacherID *uint  `json:"enseignant"`
	Status    string `json:"statut"`

	EnrolledStudentIDs     datatypes.JSONSlice[uint] `json:"etudiantsInscrits" gorm:"type:jsonb"`
	EnrolledOrgIDs         datatypes.JSONSlice[uint] `json:"organisationsInscrites" gorm:"type:jsonb"`
	EnrolledParticipantIDs datatypes.JSONSlice[uint] `json:"participantsInscrits" gorm:"type:jsonb"`
	SessionIDs             datatypes.JSONSlice[uint] `json:"sessions" gorm:"type:jsonb"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = CourseStatusPlanned
	}
	return nil
}
