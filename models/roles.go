package models

// Role tags as they appear in JWT claims and route guards. The French values
// are part of the wire format and must not be translated.
const (
	RoleAdmin        = "admin"
	RoleTeacher      = "enseignant"
	RoleStudent      = "etudiant"
	RoleOrganization = "organisation"
)

// ContainsID reports whether a roster holds the given id.
func ContainsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID returns the roster without the given id, preserving order.
func RemoveID(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
