package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/baxirbajja/Formajoy-api/config"
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
	// One connection: every pooled connection of an in-memory sqlite gets its
	// own empty database otherwise.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Admin{}, &models.Teacher{}, &models.Student{}, &models.Organization{},
	))
	return db
}

func TestRegisterRejectsEmailUsedInAnotherTable(t *testing.T) {
	r := NewResolver(newTestDB(t))

	_, err := r.Register(RegisterInput{
		LastName: "Martin", FirstName: "Luc",
		Email: "luc@example.com", Password: "secret123",
		Role: models.RoleTeacher,
	})
	require.NoError(t, err)

	// Same email, different role: still rejected.
	_, err = r.Register(RegisterInput{
		LastName: "Martin", FirstName: "Luc",
		Email: "luc@example.com", Password: "autre123",
		Role: models.RoleStudent,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r := NewResolver(newTestDB(t))
	_, err := r.Register(RegisterInput{
		Email: "x@example.com", Password: "secret123", Role: "superviseur",
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestLoginProbePrecedence(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	// Force a cross-table duplicate, bypassing Register's guard: the admin
	// table must win the probe.
	adminHash, err := hashPassword("admin-pass")
	require.NoError(t, err)
	studentHash, err := hashPassword("student-pass")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{
		LastName: "Dupont", FirstName: "Anne",
		Email: "dup@example.com", Password: adminHash, Role: models.RoleAdmin,
	}).Error)
	require.NoError(t, db.Create(&models.Student{
		LastName: "Dupont", FirstName: "Paul",
		Email: "dup@example.com", Password: studentHash, Role: models.RoleStudent,
	}).Error)

	acc, err := r.Login("dup@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role)

	// The student's password never reaches a comparison: the first match owns
	// the email.
	_, err = r.Login("dup@example.com", "student-pass")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestLoginWrongPasswordAndUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	_, err := r.Register(RegisterInput{
		LastName: "Roy", FirstName: "Mia",
		Email: "mia@example.com", Password: "secret123",
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	_, err = r.Login("mia@example.com", "wrong")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))

	_, err = r.Login("nobody@example.com", "whatever")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestResolveConsultsOnlyTheClaimedTable(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	acc, err := r.Register(RegisterInput{
		LastName: "Benali", FirstName: "Sara",
		Email: "sara@example.com", Password: "secret123",
		Role: models.RoleStudent,
	})
	require.NoError(t, err)
	id := acc.ID()

	resolved, err := r.Resolve(Claims{UserID: id, Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", resolved.Email())

	// Same id under a different role points at a different table.
	_, err = r.Resolve(Claims{UserID: id, Role: models.RoleTeacher})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestResolveDeletedAccount(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	acc, err := r.RegisterAdmin("Faure", "Leo", "leo@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Admin{}, acc.ID()).Error)

	_, err = r.Resolve(Claims{UserID: acc.ID(), Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestTokenRoundTrip(t *testing.T) {
	config.JwtKey = []byte("test-signing-key")
	config.JwtExpire = time.Hour

	token, err := IssueToken(models.RoleTeacher, 42)
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)

	_, err = VerifyToken(token + "x")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestSummarizeOrganizationNameInLastName(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	acc, err := r.Register(RegisterInput{
		OrganizationName: "TechCorp",
		Email:            "contact@techcorp.com", Password: "secret123",
		Role: models.RoleOrganization,
	})
	require.NoError(t, err)

	summary := acc.Summarize()
	assert.Equal(t, "TechCorp", summary.LastName)
	assert.Equal(t, models.RoleOrganization, summary.Role)
}
