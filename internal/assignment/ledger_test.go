package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	require.NoError(t, db.AutoMigrate(&models.Teacher{}, &models.Course{}))
	return db
}

func seedTeacher(t *testing.T, db *gorm.DB, email string, commission float64) *models.Teacher {
	t.Helper()
	teacher := &models.Teacher{
		LastName: "Durand", FirstName: "Alex",
		Email: email, CommissionPercent: commission,
	}
	require.NoError(t, db.Create(teacher).Error)
	return teacher
}

func TestCourseCreatedRecordsAssignment(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	teacher := seedTeacher(t, db, "t1@example.com", 20)

	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, ledger.CourseCreated(course))

	var reloaded models.Teacher
	require.NoError(t, db.First(&reloaded, teacher.ID).Error)
	require.Len(t, reloaded.Assignments, 1)
	assert.Equal(t, course.ID, reloaded.Assignments[0].CourseID)
	assert.Equal(t, 300.0, reloaded.Assignments[0].Price)
	assert.Equal(t, 20.0, reloaded.Assignments[0].CommissionPercent)
}

func TestCourseCreatedWithoutTeacherIsNoop(t *testing.T) {
	db := newTestDB(t)
	course := &models.Course{Name: "Go avancé", Price: 300}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, NewLedger(db).CourseCreated(course))
}

func TestCourseCreatedMissingTeacherLogsAndContinues(t *testing.T) {
	db := newTestDB(t)
	missing := uint(999)
	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &missing}
	require.NoError(t, db.Create(course).Error)

	// The course keeps its dangling teacher id; no record, no error.
	require.NoError(t, NewLedger(db).CourseCreated(course))
}

func TestReassignmentMovesRecordBetweenTeachers(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	t1 := seedTeacher(t, db, "t1@example.com", 20)
	t2 := seedTeacher(t, db, "t2@example.com", 35)

	other := &models.Course{Name: "SQL", Price: 150, TeacherID: &t1.ID}
	require.NoError(t, db.Create(other).Error)
	require.NoError(t, ledger.CourseCreated(other))

	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &t1.ID}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, ledger.CourseCreated(course))

	oldTeacherID := course.TeacherID
	course.TeacherID = &t2.ID
	require.NoError(t, db.Save(course).Error)
	require.NoError(t, ledger.CourseUpdated(course, oldTeacherID, course.Price))

	var r1, r2 models.Teacher
	require.NoError(t, db.First(&r1, t1.ID).Error)
	require.NoError(t, db.First(&r2, t2.ID).Error)

	// The old teacher only loses the record for this course.
	require.Len(t, r1.Assignments, 1)
	assert.Equal(t, other.ID, r1.Assignments[0].CourseID)

	// The new record carries the new teacher's standing commission.
	require.Len(t, r2.Assignments, 1)
	assert.Equal(t, course.ID, r2.Assignments[0].CourseID)
	assert.Equal(t, 35.0, r2.Assignments[0].CommissionPercent)
}

func TestRepriceUpdatesRecordInPlace(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	teacher := seedTeacher(t, db, "t1@example.com", 20)

	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, ledger.CourseCreated(course))

	oldPrice := course.Price
	course.Price = 250
	require.NoError(t, db.Save(course).Error)
	require.NoError(t, ledger.CourseUpdated(course, course.TeacherID, oldPrice))

	var reloaded models.Teacher
	require.NoError(t, db.First(&reloaded, teacher.ID).Error)
	require.Len(t, reloaded.Assignments, 1)
	assert.Equal(t, 250.0, reloaded.Assignments[0].Price)
	// Commission is untouched by a reprice.
	assert.Equal(t, 20.0, reloaded.Assignments[0].CommissionPercent)
}

func TestReassignmentFromDeletedTeacherIsSkipped(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	t2 := seedTeacher(t, db, "t2@example.com", 35)

	gone := uint(999)
	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &gone}
	require.NoError(t, db.Create(course).Error)

	course.TeacherID = &t2.ID
	require.NoError(t, db.Save(course).Error)
	require.NoError(t, ledger.CourseUpdated(course, &gone, course.Price))

	var reloaded models.Teacher
	require.NoError(t, db.First(&reloaded, t2.ID).Error)
	require.Len(t, reloaded.Assignments, 1)
	assert.Equal(t, course.ID, reloaded.Assignments[0].CourseID)
}

func TestFailedTeacherWriteIsPartialFailure(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	teacher := seedTeacher(t, db, "t1@example.com", 20)

	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(course).Error)

	// Break the teacher side after the course row is committed.
	require.NoError(t, db.Migrator().DropTable(&models.Teacher{}))

	err := ledger.CourseCreated(course)
	require.Error(t, err)
	assert.Equal(t, apperr.PartialFailure, apperr.KindOf(err))
}

func TestFailedRepriceIsPartialFailure(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	teacher := seedTeacher(t, db, "t1@example.com", 20)

	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, ledger.CourseCreated(course))

	require.NoError(t, db.Migrator().DropTable(&models.Teacher{}))

	oldPrice := course.Price
	course.Price = 250
	require.NoError(t, db.Save(course).Error)

	err := ledger.CourseUpdated(course, course.TeacherID, oldPrice)
	require.Error(t, err)
	assert.Equal(t, apperr.PartialFailure, apperr.KindOf(err))
}

func TestNoChangeIsNoop(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	teacher := seedTeacher(t, db, "t1@example.com", 20)

	course := &models.Course{Name: "Go avancé", Price: 300, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, ledger.CourseCreated(course))

	require.NoError(t, ledger.CourseUpdated(course, course.TeacherID, course.Price))

	var reloaded models.Teacher
	require.NoError(t, db.First(&reloaded, teacher.ID).Error)
	assert.Len(t, reloaded.Assignments, 1)
}
