// formajoy-api/models/attendance.go
package models

import "gorm.io/gorm"

// Attendance records presence of exactly one subject (student or
// participant) at one session. Invariant: at least one of StudentID and
// ParticipantID is set, never both.
type Attendance struct {
	gorm.Model
	SessionID     uint   `json:"session" gorm:"not null;index"`
	StudentID     *uint  `json:"etudiant" gorm:"index"`
	ParticipantID *uint  `json:"participant" gorm:"index"`
	Present       bool   `json:"present"`
	ArrivalTime   string `json:"heureArrivee"`
	DepartureTime string `json:"heureDepart"`
	Comment       string `json:"commentaire"`
}
