// formajoy-api/models/organization.go

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Organization is the partner-organization account variant. Its participants
// live in their own table and are lifecycle-bound to the organization.
type Organization struct {
	gorm.Model
	Name     string `json:"nomOrganisation" gorm:"not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"default:organisation"`

	Sector       string `json:"secteurActivite"`
	Phone        string `json:"telephone"`
	Address      string `json:"adresse"`
	ContactName  string `json:"personneContact"`
	ContactEmail string `json:"emailContact"`

	PromotionPercent float64 `json:"promotionApplicable" gorm:"default:0"`

	ParticipantIDs datatypes.JSONSlice[uint] `json:"participants" gorm:"type:jsonb"`
	CourseIDs      datatypes.JSONSlice[uint] `json:"cours" gorm:"type:jsonb"`
}
