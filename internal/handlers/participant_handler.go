// formajoy-api/internal/handlers/participant_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/enrollment"
	"github.com/baxirbajja/Formajoy-api/models"
)

type ParticipantInput struct {
	OrganizationID *uint  `json:"organisation"`
	LastName       string `json:"nom"`
	FirstName      string `json:"prenom"`
	Email          string `json:"email"`
	Phone          string `json:"telephone"`
	Position       string `json:"poste"`
}

func ListParticipantsHandler(c *gin.Context) {
	var participants []models.Participant
	if err := config.DB.Find(&participants).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des participants", err))
		return
	}
	respondList(c, participants, len(participants))
}

func GetParticipantHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	participant, err := findParticipant(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, participant)
}

// CreateParticipantHandler creates a participant under an existing
// organization and mirrors the id into the organization's participant list.
func CreateParticipantHandler(c *gin.Context) {
	var input ParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.OrganizationID == nil {
		respondError(c, apperr.New(apperr.Validation, "L'organisation est requise"))
		return
	}
	org, err := findOrganization(*input.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}

	participant := models.Participant{
		OrganizationID: org.ID,
		LastName:       input.LastName,
		FirstName:      input.FirstName,
		Email:          input.Email,
		Phone:          input.Phone,
		Position:       input.Position,
	}
	if err := config.DB.Create(&participant).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la création du participant", err))
		return
	}

	if !models.ContainsID(org.ParticipantIDs, participant.ID) {
		org.ParticipantIDs = append(org.ParticipantIDs, participant.ID)
		if err := config.DB.Save(org).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'organisation", err))
			return
		}
	}
	respondData(c, http.StatusCreated, participant)
}

func UpdateParticipantHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	participant, err := findParticipant(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input ParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if input.LastName != "" {
		participant.LastName = input.LastName
	}
	if input.FirstName != "" {
		participant.FirstName = input.FirstName
	}
	if input.Email != "" {
		participant.Email = input.Email
	}
	if input.Phone != "" {
		participant.Phone = input.Phone
	}
	if input.Position != "" {
		participant.Position = input.Position
	}

	if err := config.DB.Save(participant).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour du participant", err))
		return
	}
	respondData(c, http.StatusOK, participant)
}

// DeleteParticipantHandler removes the participant and pulls its id out of
// the owning organization's list.
func DeleteParticipantHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	participant, err := findParticipant(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Delete(participant).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression du participant", err))
		return
	}

	var org models.Organization
	if err := config.DB.First(&org, participant.OrganizationID).Error; err == nil {
		org.ParticipantIDs = models.RemoveID(org.ParticipantIDs, participant.ID)
		if err := config.DB.Save(&org).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'organisation", err))
			return
		}
	}
	respondData(c, http.StatusOK, gin.H{})
}

// EnrollParticipantHandler enrolls the participant into a course. Unlike
// students, participants carry no price: billing flows through the
// organization's special price, not per-participant snapshots.
func EnrollParticipantHandler(c *gin.Context) {
	participantID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	courseID, err := pathID(c, "courseId")
	if err != nil {
		respondError(c, err)
		return
	}

	_, err = enrollment.NewCoordinator(config.DB).Enroll(enrollment.SubjectParticipant, participantID, courseID)
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Participant inscrit au cours")
}

func findParticipant(id uint) (*models.Participant, error) {
	var participant models.Participant
	if err := config.DB.First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Participant non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement du participant", err)
	}
	return &participant, nil
}
