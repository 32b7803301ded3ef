// formajoy-api/internal/attendance/recorder.go

// Package attendance creates and updates attendance records, keeping each
// one tied 1:1 to a (session, subject) pair and mirrored into the session's
// roster. The roster gains the id exactly once, at record creation.
package attendance

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/saga"
	"github.com/baxirbajja/Formajoy-api/models"
)

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// MarkInput carries the caller-supplied state for a mark call. Pointer
// fields distinguish "absent" from zero values: on update, a nil field
// leaves the stored value untouched (except ArrivalTime, which defaults to
// the current server time when absent). Callers wanting to keep a field must
// therefore resend it — the merge is of supplied fields only, a documented
// hazard of the contract, not a bug.
type MarkInput struct {
	SessionID     uint
	StudentID     *uint
	ParticipantID *uint
	Present       *bool
	ArrivalTime   *string
	DepartureTime *string
	Comment       *string
}

// Mark idempotently creates or updates the attendance for the input's
// (session, subject) pair. The bool result is true when a record was
// created. Create and update defaults differ on purpose: present defaults
// to true only at creation; on update an absent present flag is untouched.
func (r *Recorder) Mark(in MarkInput) (*models.Attendance, bool, error) {
	if err := r.validateSubject(in.StudentID, in.ParticipantID); err != nil {
		return nil, false, err
	}
	session, err := r.loadSessionForMark(in.SessionID)
	if err != nil {
		return nil, false, err
	}

	existing, err := r.findExisting(in)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, r.applyUpdate(existing, in)
	}

	att, err := r.createMarked(session, in)
	return att, true, err
}

// applyUpdate merges the supplied fields over the stored record. The session
// roster is not touched: it already holds this id.
func (r *Recorder) applyUpdate(att *models.Attendance, in MarkInput) error {
	if in.Present != nil {
		att.Present = *in.Present
	}
	if in.ArrivalTime != nil {
		att.ArrivalTime = *in.ArrivalTime
	} else {
		att.ArrivalTime = nowClock()
	}
	if in.DepartureTime != nil {
		att.DepartureTime = *in.DepartureTime
	}
	if in.Comment != nil {
		att.Comment = *in.Comment
	}
	if err := r.db.Save(att).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "échec de la mise à jour de la présence", err)
	}
	return nil
}

func (r *Recorder) createMarked(session *models.Session, in MarkInput) (*models.Attendance, error) {
	att := &models.Attendance{
		SessionID:     in.SessionID,
		StudentID:     in.StudentID,
		ParticipantID: in.ParticipantID,
		Present:       true,
		ArrivalTime:   nowClock(),
	}
	if in.Present != nil {
		att.Present = *in.Present
	}
	if in.ArrivalTime != nil {
		att.ArrivalTime = *in.ArrivalTime
	}
	if in.DepartureTime != nil {
		att.DepartureTime = *in.DepartureTime
	}
	if in.Comment != nil {
		att.Comment = *in.Comment
	}

	err := saga.Run("mark_attendance", []saga.Step{
		{
			Name: "create_attendance",
			Run: func() error {
				if err := r.db.Create(att).Error; err != nil {
					return apperr.Wrap(apperr.Internal, "échec de la création de la présence", err)
				}
				return nil
			},
			Compensate: func() error {
				return r.db.Delete(&models.Attendance{}, att.ID).Error
			},
		},
		{
			Name: "append_session_roster",
			Run:  func() error { return r.appendToRoster(session, att.ID) },
		},
	})
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		return nil, err
	}
	return att, err
}

// Create is the plain POST path: unlike Mark it verifies the subject exists
// before writing.
func (r *Recorder) Create(att *models.Attendance) error {
	if err := r.validateSubject(att.StudentID, att.ParticipantID); err != nil {
		return err
	}
	var session models.Session
	if err := r.db.First(&session, att.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Session non trouvée")
		}
		return apperr.Wrap(apperr.Internal, "échec du chargement de la session", err)
	}
	if err := r.checkSubjectExists(att.StudentID, att.ParticipantID); err != nil {
		return err
	}

	return saga.Run("create_attendance", []saga.Step{
		{
			Name: "create_attendance",
			Run: func() error {
				if err := r.db.Create(att).Error; err != nil {
					return apperr.Wrap(apperr.Internal, "échec de la création de la présence", err)
				}
				return nil
			},
			Compensate: func() error {
				return r.db.Delete(&models.Attendance{}, att.ID).Error
			},
		},
		{
			Name: "append_session_roster",
			Run:  func() error { return r.appendToRoster(&session, att.ID) },
		},
	})
}

// Delete removes an attendance and pulls its id from the session roster. A
// missing session is not an error: the record is still removed.
func (r *Recorder) Delete(id uint) error {
	var att models.Attendance
	if err := r.db.First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Présence non trouvée")
		}
		return apperr.Wrap(apperr.Internal, "échec du chargement de la présence", err)
	}

	var session models.Session
	err := r.db.First(&session, att.SessionID).Error
	switch {
	case err == nil:
		session.AttendanceIDs = models.RemoveID(session.AttendanceIDs, att.ID)
		if err := r.db.Save(&session).Error; err != nil {
			return apperr.Wrap(apperr.Internal, "échec de la mise à jour de la session", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		slog.Warn("attendance referenced a missing session", "attendance_id", att.ID, "session_id", att.SessionID)
	default:
		return apperr.Wrap(apperr.Internal, "échec du chargement de la session", err)
	}

	if err := r.db.Delete(&att).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "échec de la suppression de la présence", err)
	}
	return nil
}

func (r *Recorder) appendToRoster(session *models.Session, attendanceID uint) error {
	if models.ContainsID(session.AttendanceIDs, attendanceID) {
		return nil
	}
	session.AttendanceIDs = append(session.AttendanceIDs, attendanceID)
	if err := r.db.Save(session).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "échec de la mise à jour de la session", err)
	}
	return nil
}

func (r *Recorder) findExisting(in MarkInput) (*models.Attendance, error) {
	q := r.db.Where("session_id = ?", in.SessionID)
	if in.StudentID != nil {
		q = q.Where("student_id = ?", *in.StudentID)
	} else {
		q = q.Where("participant_id = ?", *in.ParticipantID)
	}
	var att models.Attendance
	if err := q.First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "échec de la recherche de la présence", err)
	}
	return &att, nil
}

// loadSessionForMark treats a missing session as a validation failure, per
// the mark contract.
func (r *Recorder) loadSessionForMark(id uint) (*models.Session, error) {
	if id == 0 {
		return nil, apperr.New(apperr.Validation, "L'ID de la session est requis")
	}
	var session models.Session
	if err := r.db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.Validation, "Session inexistante")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de la session", err)
	}
	return &session, nil
}

func (r *Recorder) validateSubject(studentID, participantID *uint) error {
	hasStudent := studentID != nil && *studentID != 0
	hasParticipant := participantID != nil && *participantID != 0
	if !hasStudent && !hasParticipant {
		return apperr.New(apperr.Validation, "Un étudiant ou un participant doit être spécifié")
	}
	if hasStudent && hasParticipant {
		return apperr.New(apperr.Validation, "Un seul sujet peut être spécifié")
	}
	return nil
}

func (r *Recorder) checkSubjectExists(studentID, participantID *uint) error {
	if studentID != nil && *studentID != 0 {
		var student models.Student
		if err := r.db.First(&student, *studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Étudiant non trouvé")
			}
			return apperr.Wrap(apperr.Internal, "échec du chargement de l'étudiant", err)
		}
		return nil
	}
	var participant models.Participant
	if err := r.db.First(&participant, *participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Participant non trouvé")
		}
		return apperr.Wrap(apperr.Internal, "échec du chargement du participant", err)
	}
	return nil
}

func nowClock() string {
	return time.Now().Format("15:04:05")
}
