// formajoy-api/internal/assignment/ledger.go

// Package assignment keeps teacher↔course commission links consistent when a
// course is created, re-assigned or re-priced. Assignment records are
// embedded on the teacher and matched by course id, never by position.
package assignment

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CourseCreated records the initial assignment for a new course. When the
// referenced teacher does not exist the course keeps its dangling teacher id,
// no record is created and the gap is logged.
func (l *Ledger) CourseCreated(course *models.Course) error {
	if course.TeacherID == nil {
		return nil
	}
	return l.classify("course_created", course.ID, l.appendAssignment(*course.TeacherID, course))
}

// CourseUpdated reconciles assignment records after a course save. When the
// teacher changed, the old teacher loses the record for this course (matched
// by course id) and the new teacher gains one at the current price and their
// standing commission. When only the price changed, the existing record's
// price is overwritten in place. A deleted old teacher is skipped silently.
func (l *Ledger) CourseUpdated(course *models.Course, oldTeacherID *uint, oldPrice float64) error {
	return l.classify("course_updated", course.ID, l.reconcile(course, oldTeacherID, oldPrice))
}

func (l *Ledger) reconcile(course *models.Course, oldTeacherID *uint, oldPrice float64) error {
	teacherChanged := !equalIDs(oldTeacherID, course.TeacherID)

	if teacherChanged {
		if oldTeacherID != nil {
			if err := l.removeAssignment(*oldTeacherID, course.ID); err != nil {
				return err
			}
		}
		if course.TeacherID != nil {
			return l.appendAssignment(*course.TeacherID, course)
		}
		return nil
	}

	if course.Price != oldPrice && course.TeacherID != nil {
		return l.repriceAssignment(*course.TeacherID, course)
	}
	return nil
}

// classify downgrades a failed teacher-side write. The course row is already
// committed when the ledger runs, so a failure here leaves the two documents
// divergent without undoing the course save: the divergence is logged for
// reconciliation and callers get PartialFailure, which reports the primary
// write's outcome.
func (l *Ledger) classify(op string, courseID uint, err error) error {
	if err == nil {
		return nil
	}
	slog.Error("assignment write failed after course save",
		"op", op,
		"course_id", courseID,
		"error", err,
		"partial_failure", true,
	)
	return apperr.Wrap(apperr.PartialFailure, "écriture partielle détectée", err)
}

func (l *Ledger) appendAssignment(teacherID uint, course *models.Course) error {
	teacher, ok, err := l.loadTeacher(teacherID)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("course references a missing teacher, no assignment recorded",
			"course_id", course.ID, "teacher_id", teacherID)
		return nil
	}
	teacher.Assignments = append(teacher.Assignments, models.AssignmentRecord{
		CourseID:          course.ID,
		Price:             course.Price,
		CommissionPercent: teacher.CommissionPercent,
		AssignedAt:        time.Now(),
	})
	return l.saveTeacher(teacher)
}

func (l *Ledger) removeAssignment(teacherID, courseID uint) error {
	teacher, ok, err := l.loadTeacher(teacherID)
	if err != nil {
		return err
	}
	if !ok {
		// Old teacher already deleted: nothing to clean up.
		return nil
	}
	kept := make([]models.AssignmentRecord, 0, len(teacher.Assignments))
	for _, a := range teacher.Assignments {
		if a.CourseID != courseID {
			kept = append(kept, a)
		}
	}
	teacher.Assignments = kept
	return l.saveTeacher(teacher)
}

func (l *Ledger) repriceAssignment(teacherID uint, course *models.Course) error {
	teacher, ok, err := l.loadTeacher(teacherID)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("reprice for a missing teacher, assignment untouched",
			"course_id", course.ID, "teacher_id", teacherID)
		return nil
	}
	idx := teacher.AssignmentIndex(course.ID)
	if idx == -1 {
		slog.Warn("no assignment record to reprice",
			"course_id", course.ID, "teacher_id", teacherID)
		return nil
	}
	teacher.Assignments[idx].Price = course.Price
	return l.saveTeacher(teacher)
}

func (l *Ledger) loadTeacher(id uint) (*models.Teacher, bool, error) {
	var teacher models.Teacher
	if err := l.db.First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperr.Wrap(apperr.Internal, "échec du chargement de l'enseignant", err)
	}
	return &teacher, true, nil
}

func (l *Ledger) saveTeacher(t *models.Teacher) error {
	if err := l.db.Save(t).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'enseignant", err)
	}
	return nil
}

func equalIDs(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
