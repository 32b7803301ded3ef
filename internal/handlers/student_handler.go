// formajoy-api/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/billing"
	"github.com/baxirbajja/Formajoy-api/internal/enrollment"
	"github.com/baxirbajja/Formajoy-api/models"
)

// StudentInput binds create/update requests. Password is only honored at
// creation; updates never change credentials through this endpoint.
type StudentInput struct {
	LastName         string     `json:"nom"`
	FirstName        string     `json:"prenom"`
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	Phone            string     `json:"telephone"`
	Address          string     `json:"adresse"`
	BirthDate        *time.Time `json:"dateNaissance"`
	PromotionPercent *float64   `json:"promotionApplicable"`
}

// ListStudentsHandler returns all students.
func ListStudentsHandler(c *gin.Context) {
	var students []models.Student
	if err := config.DB.Find(&students).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des étudiants", err))
		return
	}
	respondList(c, students, len(students))
}

// GetStudentHandler returns one student by id.
func GetStudentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Étudiant non trouvé"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement de l'étudiant", err))
		}
		return
	}
	respondData(c, http.StatusOK, student)
}

// CreateStudentHandler creates a student without an initial password flow
// (admin-created records; the student can be registered later).
func CreateStudentHandler(c *gin.Context) {
	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	student := models.Student{
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		BirthDate: input.BirthDate,
		Role:      models.RoleStudent,
	}
	if input.PromotionPercent != nil {
		student.PromotionPercent = *input.PromotionPercent
	}
	if err := config.DB.Create(&student).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la création de l'étudiant", err))
		return
	}
	respondData(c, http.StatusCreated, student)
}

// UpdateStudentHandler updates a student. Changing the promotion recomputes
// the derived total from the stored snapshots — the snapshots themselves are
// fixed at enroll time and do not move with the promotion.
func UpdateStudentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Étudiant non trouvé"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement de l'étudiant", err))
		}
		return
	}

	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if input.LastName != "" {
		student.LastName = input.LastName
	}
	if input.FirstName != "" {
		student.FirstName = input.FirstName
	}
	if input.Email != "" {
		student.Email = input.Email
	}
	if input.Phone != "" {
		student.Phone = input.Phone
	}
	if input.Address != "" {
		student.Address = input.Address
	}
	if input.BirthDate != nil {
		student.BirthDate = input.BirthDate
	}
	if input.PromotionPercent != nil {
		student.PromotionPercent = *input.PromotionPercent
	}

	total, err := billing.ComputeTotal(student.EnrollmentPrices(), student.PromotionPercent, true)
	if err != nil {
		respondError(c, err)
		return
	}
	student.TotalOwed = total

	if err := config.DB.Save(&student).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'étudiant", err))
		return
	}
	respondData(c, http.StatusOK, student)
}

// DeleteStudentHandler removes a student.
func DeleteStudentHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.New(apperr.NotFound, "Étudiant non trouvé"))
		} else {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement de l'étudiant", err))
		}
		return
	}
	if err := config.DB.Delete(&student).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression de l'étudiant", err))
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// EnrollStudentHandler enrolls the student into a course, snapshotting the
// discounted price and mirroring the course roster.
func EnrollStudentHandler(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	courseID, err := pathID(c, "courseId")
	if err != nil {
		respondError(c, err)
		return
	}

	coord := enrollment.NewCoordinator(config.DB)
	record, err := coord.Enroll(enrollment.SubjectStudent, studentID, courseID)
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	// A partial failure means the enrollment itself committed; the response
	// reflects the primary write.
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Inscription au cours réussie",
		"data": gin.H{
			"coursId":         record.CourseID,
			"prixFinal":       record.Price,
			"dateInscription": record.EnrolledAt,
		},
	})
}
