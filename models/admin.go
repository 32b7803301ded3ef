// formajoy-api/models/admin.go
package models

import "gorm.io/gorm"

// Admin is one of the four disjoint account tables. Admins carry no domain
// state beyond their identity.
type Admin struct {
	gorm.Model
	LastName  string `json:"nom" gorm:"not null"`
	FirstName string `json:"prenom" gorm:"not null"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"default:admin"`
}
