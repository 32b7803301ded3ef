package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Student{}, &models.Teacher{}, &models.Payment{},
	))
	return db
}

func seedEnrolledStudent(t *testing.T, db *gorm.DB) *models.Student {
	t.Helper()
	s := &models.Student{
		LastName: "Nguyen", FirstName: "Thi", Email: "thi@example.com",
		PromotionPercent: 10,
		Enrollments: datatypes.NewJSONSlice([]models.EnrollmentRecord{
			{CourseID: 1, Price: 90, EnrolledAt: time.Now()},
			{CourseID: 2, Price: 180, EnrolledAt: time.Now()},
		}),
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func TestCreateStudentPaymentSnapshotsAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := seedEnrolledStudent(t, db)

	payment, err := ledger.CreateStudentPayment(student.ID, 2026, 8, "mensualité août")
	require.NoError(t, err)
	// Snapshots already discounted: plain sum.
	assert.Equal(t, 270.0, payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, models.RecipientStudent, payment.RecipientKind)
	assert.NotEmpty(t, payment.Reference)
	assert.Nil(t, payment.PaidAt)
}

func TestStudentPaymentIsolatedFromLaterEnrollmentChanges(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := seedEnrolledStudent(t, db)

	payment, err := ledger.CreateStudentPayment(student.ID, 2026, 8, "")
	require.NoError(t, err)

	// Drop an enrollment after the payment was created.
	student.Enrollments = datatypes.NewJSONSlice([]models.EnrollmentRecord{
		{CourseID: 1, Price: 90, EnrolledAt: time.Now()},
	})
	require.NoError(t, db.Save(student).Error)

	var reloaded models.Payment
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, 270.0, reloaded.Amount)

	// A new payment sees the new state.
	next, err := ledger.CreateStudentPayment(student.ID, 2026, 9, "")
	require.NoError(t, err)
	assert.Equal(t, 90.0, next.Amount)
}

func TestCreateTeacherPaymentUsesSuppliedAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	teacher := &models.Teacher{LastName: "Durand", FirstName: "Alex", Email: "alex@example.com"}
	require.NoError(t, db.Create(teacher).Error)

	payment, err := ledger.CreateTeacherPayment(teacher.ID, 2026, 8, 1500, "salaire août")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, payment.Amount)
	assert.Equal(t, models.RecipientTeacher, payment.RecipientKind)
}

func TestCreatePaymentMissingRecipient(t *testing.T) {
	ledger := NewLedger(newTestDB(t))

	_, err := ledger.CreateStudentPayment(999, 2026, 8, "")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = ledger.CreateTeacherPayment(999, 2026, 8, 100, "")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCreatePaymentInvalidPeriod(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := seedEnrolledStudent(t, db)

	_, err := ledger.CreateStudentPayment(student.ID, 1999, 8, "")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = ledger.CreateStudentPayment(student.ID, 2026, 13, "")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestSetStatusStampsPaidAtOnce(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := seedEnrolledStudent(t, db)

	payment, err := ledger.CreateStudentPayment(student.ID, 2026, 8, "")
	require.NoError(t, err)

	paid, err := ledger.SetStatus(payment.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	firstStamp := *paid.PaidAt

	// Leaving and re-entering "payé" keeps the original stamp.
	cancelled, err := ledger.SetStatus(payment.ID, models.PaymentStatusCancelled)
	require.NoError(t, err)
	require.NotNil(t, cancelled.PaidAt)
	assert.Equal(t, firstStamp.Unix(), cancelled.PaidAt.Unix())

	rePaid, err := ledger.SetStatus(payment.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	require.NotNil(t, rePaid.PaidAt)
	assert.Equal(t, firstStamp.Unix(), rePaid.PaidAt.Unix())
}

func TestUpdateMergesFieldsAndStampsPaidAt(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := seedEnrolledStudent(t, db)

	payment, err := ledger.CreateStudentPayment(student.ID, 2026, 8, "mensualité")
	require.NoError(t, err)

	amount := 300.0
	desc := "mensualité corrigée"
	status := models.PaymentStatusPaid
	updated, err := ledger.Update(payment.ID, UpdateInput{
		Amount: &amount, Description: &desc, Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.Amount)
	assert.Equal(t, "mensualité corrigée", updated.Description)
	require.NotNil(t, updated.PaidAt)
	// Untouched fields survive the merge.
	assert.Equal(t, 2026, updated.Year)
	assert.Equal(t, 8, updated.Month)
}

func TestUpdateRejectsInvalidMergedPeriod(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := seedEnrolledStudent(t, db)

	payment, err := ledger.CreateStudentPayment(student.ID, 2026, 8, "")
	require.NoError(t, err)

	month := 13
	_, err = ledger.Update(payment.ID, UpdateInput{Month: &month})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	ledger := NewLedger(newTestDB(t))
	_, err := ledger.SetStatus(1, "remboursé")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestSetStatusMissingPayment(t *testing.T) {
	ledger := NewLedger(newTestDB(t))
	_, err := ledger.SetStatus(999, models.PaymentStatusPaid)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
