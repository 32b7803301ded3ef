// formajoy-api/internal/identity/account.go
package identity

import "github.com/baxirbajja/Formajoy-api/models"

// Account is the tagged union over the four account variants. Exactly one of
// the pointers is set, matching Role.
type Account struct {
	Role         string
	Admin        *models.Admin
	Teacher      *models.Teacher
	Student      *models.Student
	Organization *models.Organization
}

// ID returns the row id of whichever variant is set.
func (a Account) ID() uint {
	switch a.Role {
	case models.RoleAdmin:
		return a.Admin.ID
	case models.RoleTeacher:
		return a.Teacher.ID
	case models.RoleStudent:
		return a.Student.ID
	case models.RoleOrganization:
		return a.Organization.ID
	}
	return 0
}

// Email returns the variant's email.
func (a Account) Email() string {
	switch a.Role {
	case models.RoleAdmin:
		return a.Admin.Email
	case models.RoleTeacher:
		return a.Teacher.Email
	case models.RoleStudent:
		return a.Student.Email
	case models.RoleOrganization:
		return a.Organization.Email
	}
	return ""
}

// Data returns the concrete model for serialization.
func (a Account) Data() any {
	switch a.Role {
	case models.RoleAdmin:
		return a.Admin
	case models.RoleTeacher:
		return a.Teacher
	case models.RoleStudent:
		return a.Student
	case models.RoleOrganization:
		return a.Organization
	}
	return nil
}

// Summary is the compact identity payload put in login/register responses
// and cached by the auth middleware.
type Summary struct {
	ID        uint   `json:"id"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Summarize builds the compact payload. Organizations have no first name;
// their display name goes into the nom field.
func (a Account) Summarize() Summary {
	s := Summary{ID: a.ID(), Email: a.Email(), Role: a.Role}
	switch a.Role {
	case models.RoleAdmin:
		s.LastName, s.FirstName = a.Admin.LastName, a.Admin.FirstName
	case models.RoleTeacher:
		s.LastName, s.FirstName = a.Teacher.LastName, a.Teacher.FirstName
	case models.RoleStudent:
		s.LastName, s.FirstName = a.Student.LastName, a.Student.FirstName
	case models.RoleOrganization:
		s.LastName = a.Organization.Name
	}
	return s
}
