// formajoy-api/internal/handlers/organization_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

type OrganizationInput struct {
	Name             string   `json:"nomOrganisation"`
	Email            string   `json:"email"`
	Sector           string   `json:"secteurActivite"`
	Phone            string   `json:"telephone"`
	Address          string   `json:"adresse"`
	ContactName      string   `json:"personneContact"`
	ContactEmail     string   `json:"emailContact"`
	PromotionPercent *float64 `json:"promotionApplicable"`
}

func ListOrganizationsHandler(c *gin.Context) {
	var orgs []models.Organization
	if err := config.DB.Find(&orgs).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des organisations", err))
		return
	}
	respondList(c, orgs, len(orgs))
}

func GetOrganizationHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	org, err := findOrganization(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, org)
}

func CreateOrganizationHandler(c *gin.Context) {
	var input OrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.Name == "" {
		respondError(c, apperr.New(apperr.Validation, "Le nom de l'organisation est requis"))
		return
	}

	org := models.Organization{
		Name:         input.Name,
		Email:        input.Email,
		Role:         models.RoleOrganization,
		Sector:       input.Sector,
		Phone:        input.Phone,
		Address:      input.Address,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
	}
	if input.PromotionPercent != nil {
		org.PromotionPercent = *input.PromotionPercent
	}
	if err := config.DB.Create(&org).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la création de l'organisation", err))
		return
	}
	respondData(c, http.StatusCreated, org)
}

func UpdateOrganizationHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	org, err := findOrganization(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input OrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if input.Name != "" {
		org.Name = input.Name
	}
	if input.Email != "" {
		org.Email = input.Email
	}
	if input.Sector != "" {
		org.Sector = input.Sector
	}
	if input.Phone != "" {
		org.Phone = input.Phone
	}
	if input.Address != "" {
		org.Address = input.Address
	}
	if input.ContactName != "" {
		org.ContactName = input.ContactName
	}
	if input.ContactEmail != "" {
		org.ContactEmail = input.ContactEmail
	}
	if input.PromotionPercent != nil {
		org.PromotionPercent = *input.PromotionPercent
	}

	if err := config.DB.Save(org).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'organisation", err))
		return
	}
	respondData(c, http.StatusOK, org)
}

// DeleteOrganizationHandler removes the organization and every participant it
// owns. Participants are lifecycle-bound to their organization and never
// survive it.
func DeleteOrganizationHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	org, err := findOrganization(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Where("organization_id = ?", org.ID).Delete(&models.Participant{}).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression des participants", err))
		return
	}
	if err := config.DB.Delete(org).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression de l'organisation", err))
		return
	}
	respondMessage(c, http.StatusOK, "Organisation et participants supprimés")
}

// GetParticipantsByOrganizationHandler lists the participants owned by the
// organization.
func GetParticipantsByOrganizationHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := findOrganization(id); err != nil {
		respondError(c, err)
		return
	}
	var participants []models.Participant
	if err := config.DB.Where("organization_id = ?", id).Find(&participants).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des participants", err))
		return
	}
	respondList(c, participants, len(participants))
}

func findOrganization(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := config.DB.First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Organisation non trouvée")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de l'organisation", err)
	}
	return &org, nil
}
