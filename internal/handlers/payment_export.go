// formajoy-api/internal/handlers/payment_export.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

var exportHeaders = []string{
	"Référence", "Destinataire", "Type", "Montant", "Montant (lettres)",
	"Année", "Mois", "Statut", "Date de paiement", "Description",
}

// ExportPaymentsHandler streams the payment ledger as an xlsx workbook. The
// amount-in-words column spells out the integer part, the way paper receipts
// are filled in.
func ExportPaymentsHandler(c *gin.Context) {
	var list []models.Payment
	if err := config.DB.Order("year desc, month desc").Find(&list).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des paiements", err))
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Paiements"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range list {
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format("2006-01-02")
		}
		values := []any{
			p.Reference,
			recipientLabel(p),
			p.RecipientKind,
			p.Amount,
			num2words.Convert(int(p.Amount)),
			p.Year,
			p.Month,
			p.Status,
			paidAt,
			p.Description,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("paiements-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de l'export des paiements", err))
	}
}

// recipientLabel resolves the recipient's display name; a deleted recipient
// shows up as its numeric id so the row is still attributable.
func recipientLabel(p models.Payment) string {
	switch p.RecipientKind {
	case models.RecipientStudent:
		var s models.Student
		if err := config.DB.First(&s, p.RecipientID).Error; err == nil {
			return s.FirstName + " " + s.LastName
		}
	case models.RecipientTeacher:
		var t models.Teacher
		if err := config.DB.First(&t, p.RecipientID).Error; err == nil {
			return t.FirstName + " " + t.LastName
		}
	}
	return fmt.Sprintf("#%d", p.RecipientID)
}
