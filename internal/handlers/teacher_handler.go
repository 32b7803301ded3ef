// formajoy-api/internal/handlers/teacher_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

type TeacherInput struct {
	LastName          string                    `json:"nom"`
	FirstName         string                    `json:"prenom"`
	Email             string                    `json:"email"`
	Phone             string                    `json:"telephone"`
	Address           string                    `json:"adresse"`
	Specialty         string                    `json:"specialite"`
	CommissionPercent *float64                  `json:"pourcentageProfit"`
	Availability      []models.AvailabilitySlot `json:"heuresDisponibles"`
	SessionsPerWeek   *int                      `json:"sessionsParSemaine"`
	Status            string                    `json:"statut"`
	Salary            *float64                  `json:"salaire"`
}

func ListTeachersHandler(c *gin.Context) {
	var teachers []models.Teacher
	if err := config.DB.Find(&teachers).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des enseignants", err))
		return
	}
	respondList(c, teachers, len(teachers))
}

func GetTeacherHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	teacher, err := findTeacher(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, teacher)
}

func CreateTeacherHandler(c *gin.Context) {
	var input TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	teacher := models.Teacher{
		LastName:     input.LastName,
		FirstName:    input.FirstName,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		Specialty:    input.Specialty,
		Role:         models.RoleTeacher,
		Status:       input.Status,
		Availability: datatypes.NewJSONSlice(input.Availability),
	}
	if input.CommissionPercent != nil {
		teacher.CommissionPercent = *input.CommissionPercent
	}
	if input.SessionsPerWeek != nil {
		teacher.SessionsPerWeek = *input.SessionsPerWeek
	}
	if input.Salary != nil {
		teacher.Salary = *input.Salary
	}
	if err := config.DB.Create(&teacher).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la création de l'enseignant", err))
		return
	}
	respondData(c, http.StatusCreated, teacher)
}

// UpdateTeacherHandler updates a teacher's own fields. The commission change
// only affects future assignments; existing assignment records keep the
// commission captured when they were created.
func UpdateTeacherHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	teacher, err := findTeacher(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if input.LastName != "" {
		teacher.LastName = input.LastName
	}
	if input.FirstName != "" {
		teacher.FirstName = input.FirstName
	}
	if input.Email != "" {
		teacher.Email = input.Email
	}
	if input.Phone != "" {
		teacher.Phone = input.Phone
	}
	if input.Address != "" {
		teacher.Address = input.Address
	}
	if input.Specialty != "" {
		teacher.Specialty = input.Specialty
	}
	if input.Status != "" {
		teacher.Status = input.Status
	}
	if input.CommissionPercent != nil {
		teacher.CommissionPercent = *input.CommissionPercent
	}
	if input.SessionsPerWeek != nil {
		teacher.SessionsPerWeek = *input.SessionsPerWeek
	}
	if input.Salary != nil {
		teacher.Salary = *input.Salary
	}
	if input.Availability != nil {
		teacher.Availability = datatypes.NewJSONSlice(input.Availability)
	}

	if err := config.DB.Save(teacher).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour de l'enseignant", err))
		return
	}
	respondData(c, http.StatusOK, teacher)
}

// DeleteTeacherHandler removes a teacher. Courses pointing at the deleted
// teacher keep their teacher id; the assignment ledger tolerates the gap.
func DeleteTeacherHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	teacher, err := findTeacher(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := config.DB.Delete(teacher).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression de l'enseignant", err))
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// GetCoursesByTeacherHandler lists the courses currently assigned to the
// teacher, resolved from the assignment records.
func GetCoursesByTeacherHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	teacher, err := findTeacher(id)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uint, 0, len(teacher.Assignments))
	for _, a := range teacher.Assignments {
		ids = append(ids, a.CourseID)
	}
	courses := []models.Course{}
	if len(ids) > 0 {
		if err := config.DB.Where("id IN ?", ids).Find(&courses).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des cours", err))
			return
		}
	}
	respondList(c, courses, len(courses))
}

func findTeacher(id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := config.DB.First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Enseignant non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement de l'enseignant", err)
	}
	return &teacher, nil
}
