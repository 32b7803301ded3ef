// formajoy-api/internal/payments/ledger.go

// Package payments creates monthly payments and moves them through their
// status lifecycle. Student amounts are derived once, at creation, from the
// live enrollment snapshots; later enrollment changes never touch an
// existing payment.
package payments

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/billing"
	"github.com/baxirbajja/Formajoy-api/models"
)

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CreateStudentPayment snapshots the student's current total owed into a new
// pending payment. The enrollment prices already carry the promotion, so the
// sum applies no further discount.
func (l *Ledger) CreateStudentPayment(studentID uint, year, month int, description string) (*models.Payment, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	var student models.Student
	if err := l.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Étudiant non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de l'étudiant", err)
	}

	amount, err := billing.ComputeTotal(student.EnrollmentPrices(), student.PromotionPercent, true)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		RecipientID:   studentID,
		RecipientKind: models.RecipientStudent,
		Amount:        amount,
		Year:          year,
		Month:         month,
		Status:        models.PaymentStatusPending,
		Description:   description,
		Reference:     uuid.NewString(),
	}
	if err := l.db.Create(payment).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "échec de la création du paiement", err)
	}
	return payment, nil
}

// CreateTeacherPayment records a teacher payment with a caller-supplied
// amount; nothing is derived.
func (l *Ledger) CreateTeacherPayment(teacherID uint, year, month int, amount float64, description string) (*models.Payment, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := l.db.First(&teacher, teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Enseignant non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de l'enseignant", err)
	}

	payment := &models.Payment{
		RecipientID:   teacherID,
		RecipientKind: models.RecipientTeacher,
		Amount:        amount,
		Year:          year,
		Month:         month,
		Status:        models.PaymentStatusPending,
		Description:   description,
		Reference:     uuid.NewString(),
	}
	if err := l.db.Create(payment).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "échec de la création du paiement", err)
	}
	return payment, nil
}

// SetStatus moves a payment to the given status. Entering "payé" stamps
// PaidAt exactly once; leaving it never clears the stamp. One-way timestamp.
func (l *Ledger) SetStatus(paymentID uint, status string) (*models.Payment, error) {
	return l.Update(paymentID, UpdateInput{Status: &status})
}

// UpdateInput carries the optional fields of a general payment update. Nil
// fields are left untouched.
type UpdateInput struct {
	Amount      *float64
	Year        *int
	Month       *int
	Status      *string
	Description *string
}

// Update merges the supplied fields over the payment. The resulting period
// must still be valid, and a supplied status follows the SetStatus stamping
// rule.
func (l *Ledger) Update(paymentID uint, in UpdateInput) (*models.Payment, error) {
	if in.Status != nil && !models.ValidPaymentStatus(*in.Status) {
		return nil, apperr.Newf(apperr.Validation, "statut invalide: %s", *in.Status)
	}
	var payment models.Payment
	if err := l.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Paiement non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement du paiement", err)
	}

	if in.Amount != nil {
		payment.Amount = *in.Amount
	}
	if in.Year != nil {
		payment.Year = *in.Year
	}
	if in.Month != nil {
		payment.Month = *in.Month
	}
	if in.Year != nil || in.Month != nil {
		if err := validatePeriod(payment.Year, payment.Month); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		payment.Description = *in.Description
	}
	if in.Status != nil {
		if *in.Status == models.PaymentStatusPaid && payment.Status != models.PaymentStatusPaid && payment.PaidAt == nil {
			now := time.Now()
			payment.PaidAt = &now
		}
		payment.Status = *in.Status
	}

	if err := l.db.Save(&payment).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "échec de la mise à jour du paiement", err)
	}
	return &payment, nil
}

func validatePeriod(year, month int) error {
	if year < 2000 || year > 2100 {
		return apperr.Newf(apperr.Validation, "année invalide: %d", year)
	}
	if month < 1 || month > 12 {
		return apperr.Newf(apperr.Validation, "mois invalide: %d", month)
	}
	return nil
}
