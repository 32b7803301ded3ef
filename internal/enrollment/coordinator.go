// formajoy-api/internal/enrollment/coordinator.go

// Package enrollment keeps the subject↔course relation consistent across two
// documents. The subject side owns the data (students own price snapshots,
// participants own course id lists); the course roster is the mirrored
// inverse. The two saves are separate writes — see the saga package for how
// partial failures are handled.
package enrollment

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/billing"
	"github.com/baxirbajja/Formajoy-api/internal/saga"
	"github.com/baxirbajja/Formajoy-api/models"
)

// SubjectKind selects which party is being enrolled.
type SubjectKind string

const (
	SubjectStudent     SubjectKind = "etudiant"
	SubjectParticipant SubjectKind = "participant"
)

// ErrAlreadyEnrolled is returned when the subject already references the
// course; the duplicate is rejected with no state change.
var ErrAlreadyEnrolled = apperr.New(apperr.Validation, "Déjà inscrit à ce cours")

// ErrNotEnrolled is the unenroll mirror of ErrAlreadyEnrolled.
var ErrNotEnrolled = apperr.New(apperr.Validation, "Pas inscrit à ce cours")

type Coordinator struct {
	db *gorm.DB
}

func NewCoordinator(db *gorm.DB) *Coordinator {
	return &Coordinator{db: db}
}

// Enroll adds the subject↔course relation, maintaining both sides. For
// students it snapshots the discounted price and recomputes the total owed;
// participants carry no price state. Returns the new enrollment record on
// the student path, nil otherwise.
//
// A PartialFailure error means the subject-side write committed and could
// not be rolled back after the roster write failed: the enrollment stands
// and the divergence has been logged.
func (c *Coordinator) Enroll(kind SubjectKind, subjectID, courseID uint) (*models.EnrollmentRecord, error) {
	switch kind {
	case SubjectStudent:
		return c.enrollStudent(subjectID, courseID)
	case SubjectParticipant:
		return nil, c.enrollParticipant(subjectID, courseID)
	}
	return nil, apperr.Newf(apperr.Validation, "type de sujet invalide: %s", kind)
}

// Unenroll removes the relation from both sides, recomputing the student's
// total. Same partial-failure semantics as Enroll.
func (c *Coordinator) Unenroll(kind SubjectKind, subjectID, courseID uint) error {
	switch kind {
	case SubjectStudent:
		return c.unenrollStudent(subjectID, courseID)
	case SubjectParticipant:
		return c.unenrollParticipant(subjectID, courseID)
	}
	return apperr.Newf(apperr.Validation, "type de sujet invalide: %s", kind)
}

func (c *Coordinator) enrollStudent(studentID, courseID uint) (*models.EnrollmentRecord, error) {
	course, err := c.loadCourse(courseID)
	if err != nil {
		return nil, err
	}
	student, err := c.loadStudent(studentID)
	if err != nil {
		return nil, err
	}
	if student.EnrolledIn(courseID) {
		return nil, ErrAlreadyEnrolled
	}

	price, err := billing.DiscountedPrice(course.Price, student.PromotionPercent)
	if err != nil {
		return nil, err
	}
	record := models.EnrollmentRecord{
		CourseID:   courseID,
		Price:      price,
		EnrolledAt: time.Now(),
	}

	err = saga.Run("enroll_student", []saga.Step{
		{
			Name: "save_student",
			Run: func() error {
				student.Enrollments = append(student.Enrollments, record)
				return c.recomputeAndSave(student)
			},
			Compensate: func() error {
				student.Enrollments = removeRecord(student.Enrollments, courseID)
				return c.recomputeAndSave(student)
			},
		},
		{
			Name: "save_course_roster",
			Run: func() error {
				course.EnrolledStudentIDs = append(course.EnrolledStudentIDs, studentID)
				if err := c.db.Save(course).Error; err != nil {
					return apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err)
				}
				return nil
			},
		},
	})
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		return nil, err
	}
	return &record, err
}

func (c *Coordinator) unenrollStudent(studentID, courseID uint) error {
	course, err := c.loadCourse(courseID)
	if err != nil {
		return err
	}
	student, err := c.loadStudent(studentID)
	if err != nil {
		return err
	}
	if !student.EnrolledIn(courseID) {
		return ErrNotEnrolled
	}
	removed := recordFor(student.Enrollments, courseID)

	return saga.Run("unenroll_student", []saga.Step{
		{
			Name: "save_student",
			Run: func() error {
				student.Enrollments = removeRecord(student.Enrollments, courseID)
				return c.recomputeAndSave(student)
			},
			Compensate: func() error {
				student.Enrollments = append(student.Enrollments, removed)
				return c.recomputeAndSave(student)
			},
		},
		{
			Name: "save_course_roster",
			Run: func() error {
				course.EnrolledStudentIDs = models.RemoveID(course.EnrolledStudentIDs, studentID)
				if err := c.db.Save(course).Error; err != nil {
					return apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err)
				}
				return nil
			},
		},
	})
}

func (c *Coordinator) enrollParticipant(participantID, courseID uint) error {
	course, err := c.loadCourse(courseID)
	if err != nil {
		return err
	}
	participant, err := c.loadParticipant(participantID)
	if err != nil {
		return err
	}
	if models.ContainsID(participant.CourseIDs, courseID) {
		return ErrAlreadyEnrolled
	}

	return saga.Run("enroll_participant", []saga.Step{
		{
			Name: "save_participant",
			Run: func() error {
				participant.CourseIDs = append(participant.CourseIDs, courseID)
				return c.saveParticipant(participant)
			},
			Compensate: func() error {
				participant.CourseIDs = models.RemoveID(participant.CourseIDs, courseID)
				return c.saveParticipant(participant)
			},
		},
		{
			Name: "save_course_roster",
			Run: func() error {
				course.EnrolledParticipantIDs = append(course.EnrolledParticipantIDs, participantID)
				if err := c.db.Save(course).Error; err != nil {
					return apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err)
				}
				return nil
			},
		},
	})
}

func (c *Coordinator) unenrollParticipant(participantID, courseID uint) error {
	course, err := c.loadCourse(courseID)
	if err != nil {
		return err
	}
	participant, err := c.loadParticipant(participantID)
	if err != nil {
		return err
	}
	if !models.ContainsID(participant.CourseIDs, courseID) {
		return ErrNotEnrolled
	}

	return saga.Run("unenroll_participant", []saga.Step{
		{
			Name: "save_participant",
			Run: func() error {
				participant.CourseIDs = models.RemoveID(participant.CourseIDs, courseID)
				return c.saveParticipant(participant)
			},
			Compensate: func() error {
				participant.CourseIDs = append(participant.CourseIDs, courseID)
				return c.saveParticipant(participant)
			},
		},
		{
			Name: "save_course_roster",
			Run: func() error {
				course.EnrolledParticipantIDs = models.RemoveID(course.EnrolledParticipantIDs, participantID)
				if err := c.db.Save(course).Error; err != nil {
					return apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err)
				}
				return nil
			},
		},
	})
}

// recomputeAndSave re-derives the total from the live enrollment list before
// every save. The snapshots already carry the discount, so this is a plain
// sum — the promotion is never applied a second time.
func (c *Coordinator) recomputeAndSave(student *models.Student) error {
	total, err := billing.ComputeTotal(student.EnrollmentPrices(), student.PromotionPercent, true)
	if err != nil {
		return err
	}
	student.TotalOwed = total
	if err := c.db.Save(student).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'étudiant", err)
	}
	return nil
}

func (c *Coordinator) saveParticipant(p *models.Participant) error {
	if err := c.db.Save(p).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "échec de la mise à jour du participant", err)
	}
	return nil
}

func (c *Coordinator) loadCourse(id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Cours non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement du cours", err)
	}
	return &course, nil
}

func (c *Coordinator) loadStudent(id uint) (*models.Student, error) {
	var student models.Student
	if err := c.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Étudiant non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de l'étudiant", err)
	}
	return &student, nil
}

func (c *Coordinator) loadParticipant(id uint) (*models.Participant, error) {
	var participant models.Participant
	if err := c.db.First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Participant non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement du participant", err)
	}
	return &participant, nil
}

func removeRecord(records []models.EnrollmentRecord, courseID uint) []models.EnrollmentRecord {
	out := make([]models.EnrollmentRecord, 0, len(records))
	for _, r := range records {
		if r.CourseID != courseID {
			out = append(out, r)
		}
	}
	return out
}

func recordFor(records []models.EnrollmentRecord, courseID uint) models.EnrollmentRecord {
	for _, r := range records {
		if r.CourseID == courseID {
			return r
		}
	}
	return models.EnrollmentRecord{}
}
