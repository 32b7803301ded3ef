// formajoy-api/models/payment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses and recipient kinds (wire values).
const (
	PaymentStatusPending   = "en attente"
	PaymentStatusPaid      = "payé"
	PaymentStatusCancelled = "annulé"

	RecipientStudent = "Student"
	RecipientTeacher = "Teacher"
)

// PaymentStatuses is the closed set accepted on status updates.
var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusCancelled,
}

// Payment is a monthly payment owed to or by a recipient. Amount is a
// snapshot taken at creation; it is never re-derived from live enrollment
// state. PaidAt is set exactly once, when the status first enters "payé",
// and survives later status changes.
type Payment struct {
	gorm.Model
	RecipientID   uint    `json:"recipient" gorm:"not null;index"`
	RecipientKind string  `json:"recipientModel" gorm:"not null"`
	Amount        float64 `json:"montant" gorm:"type:numeric(12,2)"`
	Year          int     `json:"year" gorm:"not null"`
	Month         int     `json:"month" gorm:"not null"`
	Status        string  `json:"status"`

	PaidAt *time.Time `json:"paymentDate"`

	Description string `json:"description"`
	Reference   string `json:"reference" gorm:"uniqueIndex"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	return nil
}

// ValidPaymentStatus reports whether v is one of the accepted statuses.
func ValidPaymentStatus(v string) bool {
	for _, s := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}
