// formajoy-api/internal/handlers/session_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

type SessionInput struct {
	CourseID  *uint      `json:"cours"`
	Date      *time.Time `json:"date"`
	StartTime string     `json:"heureDebut"`
	EndTime   string     `json:"heureFin"`
	Room      string     `json:"salle"`
	Status    string     `json:"statut"`
	TeacherID *uint      `json:"enseignant"`
	Notes     string     `json:"notes"`
}

func ListSessionsHandler(c *gin.Context) {
	var sessions []models.Session
	if err := config.DB.Find(&sessions).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des sessions", err))
		return
	}
	respondList(c, sessions, len(sessions))
}

func GetSessionHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := findSession(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, session)
}

// GetSessionsByCourseHandler lists every session of one course.
func GetSessionsByCourseHandler(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := findCourse(courseID); err != nil {
		respondError(c, err)
		return
	}
	var sessions []models.Session
	if err := config.DB.Where("course_id = ?", courseID).Find(&sessions).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des sessions", err))
		return
	}
	respondList(c, sessions, len(sessions))
}

// CreateSessionHandler schedules a session for an existing course and mirrors
// the id into the course's session list. The teacher defaults to the course's
// current teacher when not supplied.
func CreateSessionHandler(c *gin.Context) {
	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.CourseID == nil {
		respondError(c, apperr.New(apperr.Validation, "Le cours est requis"))
		return
	}
	if input.Status != "" && !models.ValidSessionStatus(input.Status) {
		respondError(c, apperr.Newf(apperr.Validation, "statut invalide: %s", input.Status))
		return
	}
	course, err := findCourse(*input.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}

	session := models.Session{
		CourseID:  course.ID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Room:      input.Room,
		Status:    input.Status,
		Notes:     input.Notes,
	}
	if input.Date != nil {
		session.Date = *input.Date
	}
	if input.TeacherID != nil {
		session.TeacherID = *input.TeacherID
	} else if course.TeacherID != nil {
		session.TeacherID = *course.TeacherID
	}

	if err := config.DB.Create(&session).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la création de la session", err))
		return
	}

	if !models.ContainsID(course.SessionIDs, session.ID) {
		course.SessionIDs = append(course.SessionIDs, session.ID)
		if err := config.DB.Save(course).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err))
			return
		}
	}
	respondData(c, http.StatusCreated, session)
}

func UpdateSessionHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := findSession(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.Status != "" && !models.ValidSessionStatus(input.Status) {
		respondError(c, apperr.Newf(apperr.Validation, "statut invalide: %s", input.Status))
		return
	}

	if input.Date != nil {
		session.Date = *input.Date
	}
	if input.StartTime != "" {
		session.StartTime = input.StartTime
	}
	if input.EndTime != "" {
		session.EndTime = input.EndTime
	}
	if input.Room != "" {
		session.Room = input.Room
	}
	if input.Status != "" {
		session.Status = input.Status
	}
	if input.TeacherID != nil {
		session.TeacherID = *input.TeacherID
	}
	if input.Notes != "" {
		session.Notes = input.Notes
	}

	if err := config.DB.Save(session).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de la session", err))
		return
	}
	respondData(c, http.StatusOK, session)
}

type sessionStatusInput struct {
	Status string `json:"statut" binding:"required"`
}

// UpdateSessionStatusHandler moves a session through its lifecycle. Only
// statuses from the closed set are accepted.
func UpdateSessionStatusHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := findSession(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input sessionStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if !models.ValidSessionStatus(input.Status) {
		respondError(c, apperr.Newf(apperr.Validation, "statut invalide: %s", input.Status))
		return
	}

	session.Status = input.Status
	if err := config.DB.Save(session).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de la session", err))
		return
	}
	respondData(c, http.StatusOK, session)
}

// DeleteSessionHandler removes a session and pulls its id out of the course
// list. Attendances referencing the session are left in place.
func DeleteSessionHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := findSession(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Delete(session).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression de la session", err))
		return
	}

	var course models.Course
	if err := config.DB.First(&course, session.CourseID).Error; err == nil {
		course.SessionIDs = models.RemoveID(course.SessionIDs, session.ID)
		if err := config.DB.Save(&course).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err))
			return
		}
	}
	respondData(c, http.StatusOK, gin.H{})
}

func findSession(id uint) (*models.Session, error) {
	var session models.Session
	if err := config.DB.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Session non trouvée")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de la session", err)
	}
	return &session, nil
}
