// formajoy-api/internal/handlers/attendance_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/attendance"
	"github.com/baxirbajja/Formajoy-api/models"
)

type AttendanceInput struct {
	SessionID     uint    `json:"session"`
	StudentID     *uint   `json:"etudiant"`
	ParticipantID *uint   `json:"participant"`
	Present       *bool   `json:"present"`
	ArrivalTime   *string `json:"heureArrivee"`
	DepartureTime *string `json:"heureDepart"`
	Comment       *string `json:"commentaire"`
}

func ListAttendancesHandler(c *gin.Context) {
	var attendances []models.Attendance
	if err := config.DB.Find(&attendances).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des présences", err))
		return
	}
	respondList(c, attendances, len(attendances))
}

func GetAttendanceHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var att models.Attendance
	if err := config.DB.First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Présence non trouvée"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement de la présence", err))
		}
		return
	}
	respondData(c, http.StatusOK, att)
}

// GetAttendancesBySessionHandler lists the attendances of one session.
func GetAttendancesBySessionHandler(c *gin.Context) {
	sessionID, err := pathID(c, "sessionId")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := findSession(sessionID); err != nil {
		respondError(c, err)
		return
	}
	var attendances []models.Attendance
	if err := config.DB.Where("session_id = ?", sessionID).Find(&attendances).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des présences", err))
		return
	}
	respondList(c, attendances, len(attendances))
}

// CreateAttendanceHandler is the plain POST path: it fails on a missing
// subject or session instead of defaulting anything.
func CreateAttendanceHandler(c *gin.Context) {
	var input AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	att := models.Attendance{
		SessionID:     input.SessionID,
		StudentID:     input.StudentID,
		ParticipantID: input.ParticipantID,
	}
	if input.Present != nil {
		att.Present = *input.Present
	}
	if input.ArrivalTime != nil {
		att.ArrivalTime = *input.ArrivalTime
	}
	if input.DepartureTime != nil {
		att.DepartureTime = *input.DepartureTime
	}
	if input.Comment != nil {
		att.Comment = *input.Comment
	}

	if err := attendance.NewRecorder(config.DB).Create(&att); err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, att)
}

// MarkAttendanceHandler is the idempotent check-in endpoint: one record per
// (session, subject), created on first call and updated afterwards.
func MarkAttendanceHandler(c *gin.Context) {
	var input AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	att, created, err := attendance.NewRecorder(config.DB).Mark(attendance.MarkInput{
		SessionID:     input.SessionID,
		StudentID:     input.StudentID,
		ParticipantID: input.ParticipantID,
		Present:       input.Present,
		ArrivalTime:   input.ArrivalTime,
		DepartureTime: input.DepartureTime,
		Comment:       input.Comment,
	})
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	message := "Présence mise à jour"
	if created {
		status = http.StatusCreated
		message = "Présence enregistrée"
	}
	c.JSON(status, gin.H{"success": true, "message": message, "data": att})
}

// UpdateAttendanceHandler merges supplied fields over the stored record. The
// session link and subject are fixed at creation and cannot be changed here.
func UpdateAttendanceHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var att models.Attendance
	if err := config.DB.First(&att, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Présence non trouvée"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement de la présence", err))
		}
		return
	}

	var input AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if input.Present != nil {
		att.Present = *input.Present
	}
	if input.ArrivalTime != nil {
		att.ArrivalTime = *input.ArrivalTime
	}
	if input.DepartureTime != nil {
		att.DepartureTime = *input.DepartureTime
	}
	if input.Comment != nil {
		att.Comment = *input.Comment
	}

	if err := config.DB.Save(&att).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de la présence", err))
		return
	}
	respondData(c, http.StatusOK, att)
}

func DeleteAttendanceHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := attendance.NewRecorder(config.DB).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
