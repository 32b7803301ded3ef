// formajoy-api/models/session.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Session statuses (wire values, French).
const (
	SessionStatusPlanned    = "planifiée"
	SessionStatusInProgress = "en cours"
	SessionStatusDone       = "terminée"
	SessionStatusCancelled  = "annulée"
)

// SessionStatuses is the closed set accepted by the status endpoint.
var SessionStatuses = []string{
	SessionStatusPlanned,
	SessionStatusInProgress,
	SessionStatusDone,
	SessionStatusCancelled,
}

// Session is one scheduled occurrence of a course. AttendanceIDs mirrors the
// attendances that reference this session; an attendance id is appended
// exactly once, at attendance creation.
type Session struct {
	gorm.Model
	CourseID  uint      `json:"cours" gorm:"not null;index"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"heureDebut"`
	EndTime   string    `json:"heureFin"`
	Room      string    `json:"salle"`
	Status    string    `json:"statut"`
	TeacherID uint      `json:"enseignant"`

	AttendanceIDs datatypes.JSONSlice[uint] `json:"presences" gorm:"type:jsonb"`

	Notes string `json:"notes"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = SessionStatusPlanned
	}
	return nil
}

// ValidSessionStatus reports whether v is one of the accepted statuses.
func ValidSessionStatus(v string) bool {
	for _, s := range SessionStatuses {
		if s == v {
			return true
		}
	}
	return false
}
