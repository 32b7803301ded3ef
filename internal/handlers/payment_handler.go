// formajoy-api/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/payments"
	"github.com/baxirbajja/Formajoy-api/models"
)

type PaymentInput struct {
	RecipientID   uint     `json:"recipient" binding:"required"`
	RecipientKind string   `json:"recipientModel" binding:"required"`
	Amount        *float64 `json:"montant"`
	Year          int      `json:"year" binding:"required"`
	Month         int      `json:"month" binding:"required"`
	Description   string   `json:"description"`
}

func ListPaymentsHandler(c *gin.Context) {
	var list []models.Payment
	if err := config.DB.Order("year desc, month desc").Find(&list).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des paiements", err))
		return
	}
	respondList(c, list, len(list))
}

func GetPaymentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var payment models.Payment
	if err := config.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Paiement non trouvé"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement du paiement", err))
		}
		return
	}
	respondData(c, http.StatusOK, payment)
}

// CreatePaymentHandler dispatches on the recipient kind: student amounts are
// derived from the enrollment snapshots, teacher amounts are caller-supplied.
func CreatePaymentHandler(c *gin.Context) {
	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ledger := payments.NewLedger(config.DB)
	var (
		payment *models.Payment
		err     error
	)
	switch input.RecipientKind {
	case models.RecipientStudent:
		payment, err = ledger.CreateStudentPayment(input.RecipientID, input.Year, input.Month, input.Description)
	case models.RecipientTeacher:
		if input.Amount == nil {
			respondError(c, apperr.New(apperr.Validation, "Le montant est requis pour un paiement enseignant"))
			return
		}
		payment, err = ledger.CreateTeacherPayment(input.RecipientID, input.Year, input.Month, *input.Amount, input.Description)
	default:
		respondError(c, apperr.Newf(apperr.Validation, "type de destinataire invalide: %s", input.RecipientKind))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, payment)
}

type paymentUpdateInput struct {
	Amount      *float64 `json:"montant"`
	Year        *int     `json:"year"`
	Month       *int     `json:"month"`
	Status      *string  `json:"status"`
	Description *string  `json:"description"`
}

// UpdatePaymentHandler merges the supplied fields over the payment; a
// supplied status goes through the same lifecycle rules as the status
// endpoint.
func UpdatePaymentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var input paymentUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := payments.NewLedger(config.DB).Update(id, payments.UpdateInput{
		Amount:      input.Amount,
		Year:        input.Year,
		Month:       input.Month,
		Status:      input.Status,
		Description: input.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, payment)
}

type paymentStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusHandler moves a payment through its lifecycle; entering
// "payé" stamps the payment date once.
func UpdatePaymentStatusHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var input paymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := payments.NewLedger(config.DB).SetStatus(id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, payment)
}

// GetPaymentsByRecipientHandler lists payments for one recipient, addressed
// by kind and id.
func GetPaymentsByRecipientHandler(c *gin.Context) {
	kind := c.Param("model")
	if kind != models.RecipientStudent && kind != models.RecipientTeacher {
		respondError(c, apperr.Newf(apperr.Validation, "type de destinataire invalide: %s", kind))
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var list []models.Payment
	if err := config.DB.
		Where("recipient_kind = ? AND recipient_id = ?", kind, id).
		Order("year desc, month desc").
		Find(&list).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des paiements", err))
		return
	}
	respondList(c, list, len(list))
}

func DeletePaymentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var payment models.Payment
	if err := config.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Paiement non trouvé"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement du paiement", err))
		}
		return
	}
	if err := config.DB.Delete(&payment).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression du paiement", err))
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}
