package attendance

import (
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(
		&models.Session{}, &models.Attendance{}, &models.Student{}, &models.Participant{},
	))
	return db
}

func seedSession(t *testing.T, db *gorm.DB) *models.Session {
	t.Helper()
	s := &models.Session{CourseID: 1, Date: time.Now()}
	require.NoError(t, db.Create(s).Error)
	return s
}

func ptr[T any](v T) *T { return &v }

func TestMarkCreatesRecordAndAppendsRosterOnce(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	session := seedSession(t, db)

	att, created, err := recorder.Mark(MarkInput{
		SessionID: session.ID,
		StudentID: ptr(uint(7)),
	})
	require.NoError(t, err)
	assert.True(t, created)
	// Creation defaults: present, arrival stamped.
	assert.True(t, att.Present)
	assert.NotEmpty(t, att.ArrivalTime)

	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	require.Len(t, []uint(reloaded.AttendanceIDs), 1)
	assert.Equal(t, att.ID, reloaded.AttendanceIDs[0])
}

func TestMarkSecondCallUpdatesSameRecord(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	session := seedSession(t, db)

	first, created, err := recorder.Mark(MarkInput{
		SessionID: session.ID,
		StudentID: ptr(uint(7)),
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := recorder.Mark(MarkInput{
		SessionID:     session.ID,
		StudentID:     ptr(uint(7)),
		Present:       ptr(false),
		DepartureTime: ptr("17:30:00"),
		Comment:       ptr("parti plus tôt"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Present)
	assert.Equal(t, "17:30:00", second.DepartureTime)

	// No second roster append.
	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.Len(t, []uint(reloaded.AttendanceIDs), 1)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkSeparateRecordsPerSubject(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	session := seedSession(t, db)

	_, created, err := recorder.Mark(MarkInput{SessionID: session.ID, StudentID: ptr(uint(7))})
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = recorder.Mark(MarkInput{SessionID: session.ID, ParticipantID: ptr(uint(7))})
	require.NoError(t, err)
	// Same numeric id, different subject kind: a distinct record.
	assert.True(t, created)

	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.Len(t, []uint(reloaded.AttendanceIDs), 2)
}

func TestMarkSubjectValidation(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	session := seedSession(t, db)

	_, _, err := recorder.Mark(MarkInput{SessionID: session.ID})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, _, err = recorder.Mark(MarkInput{
		SessionID:     session.ID,
		StudentID:     ptr(uint(1)),
		ParticipantID: ptr(uint(2)),
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestMarkMissingSessionIsValidationFailure(t *testing.T) {
	recorder := NewRecorder(newTestDB(t))
	_, _, err := recorder.Mark(MarkInput{SessionID: 999, StudentID: ptr(uint(1))})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCreateChecksSubjectExists(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	session := seedSession(t, db)

	att := &models.Attendance{SessionID: session.ID, StudentID: ptr(uint(999))}
	err := recorder.Create(att)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	student := &models.Student{LastName: "Nguyen", FirstName: "Thi", Email: "thi@example.com"}
	require.NoError(t, db.Create(student).Error)

	att = &models.Attendance{SessionID: session.ID, StudentID: &student.ID, Present: true}
	require.NoError(t, recorder.Create(att))

	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.True(t, models.ContainsID(reloaded.AttendanceIDs, att.ID))
}

func TestCreateMissingSessionIsNotFound(t *testing.T) {
	db := newTestDB(t)
	student := &models.Student{LastName: "Nguyen", FirstName: "Thi", Email: "thi@example.com"}
	require.NoError(t, db.Create(student).Error)

	err := NewRecorder(db).Create(&models.Attendance{SessionID: 999, StudentID: &student.ID})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteRemovesRecordAndRosterEntry(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	session := seedSession(t, db)

	att, _, err := recorder.Mark(MarkInput{SessionID: session.ID, StudentID: ptr(uint(7))})
	require.NoError(t, err)

	require.NoError(t, recorder.Delete(att.ID))

	var reloaded models.Session
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.Empty(t, []uint(reloaded.AttendanceIDs))

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteSurvivesMissingSession(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)

	att := &models.Attendance{SessionID: 999, StudentID: ptr(uint(7)), Present: true}
	require.NoError(t, db.Create(att).Error)

	// The record is removed even though its session is gone.
	require.NoError(t, recorder.Delete(att.ID))

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
