// formajoy-api/models/participant.go
package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Participant is a trainee sent by a partner organization. Not an account
// variant: participants never authenticate. Deleting the owning organization
// deletes its participants.
type Participant struct {
	gorm.Model
	OrganizationID uint   `json:"organisation" gorm:"not null;index"`
	LastName       string `json:"nom" gorm:"not null"`
	FirstName      string `json:"prenom" gorm:"not null"`
	Email          string `json:"email"`
	Phone          string `json:"telephone"`
	Position       string `json:"poste"`

	CourseIDs     datatypes.JSONSlice[uint] `json:"coursInscrits" gorm:"type:jsonb"`
	AttendanceIDs datatypes.JSONSlice[uint] `json:"presences" gorm:"type:jsonb"`
}
