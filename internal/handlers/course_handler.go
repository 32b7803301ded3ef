// formajoy-api/internal/handlers/course_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/internal/assignment"
	"github.com/baxirbajja/Formajoy-api/internal/enrollment"
	"github.com/baxirbajja/Formajoy-api/models"
)

type CourseInput struct {
	Name          string                `json:"nom"`
	Description   string                `json:"description"`
	Price         *float64              `json:"prix"`
	OrgPrice      *float64              `json:"prixSpecialOrganisation"`
	DurationHours *int                  `json:"dureeHeures"`
	StartDate     *time.Time            `json:"dateDebut"`
	EndDate       *time.Time            `json:"dateFin"`
	Schedule      []models.ScheduleSlot `json:"horaire"`
	Room          string                `json:"salle"`
	TeacherID     *uint                 `json:"enseignant"`
	Status        string                `json:"statut"`
}

func ListCoursesHandler(c *gin.Context) {
	var courses []models.Course
	if err := config.DB.Find(&courses).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des cours", err))
		return
	}
	respondList(c, courses, len(courses))
}

func GetCourseHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := findCourse(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, course)
}

// CreateCourseHandler creates a course and, when a teacher is attached,
// records the assignment on the teacher side.
func CreateCourseHandler(c *gin.Context) {
	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.Name == "" {
		respondError(c, apperr.New(apperr.Validation, "Le nom du cours est requis"))
		return
	}

	course := models.Course{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Schedule:    datatypes.NewJSONSlice(input.Schedule),
		Room:        input.Room,
		TeacherID:   input.TeacherID,
		Status:      input.Status,
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.OrgPrice != nil {
		course.OrgPrice = *input.OrgPrice
	}
	if input.DurationHours != nil {
		course.DurationHours = *input.DurationHours
	}
	if err := config.DB.Create(&course).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la création du cours", err))
		return
	}

	// A partial failure means the course row committed; the response reflects
	// the primary write.
	if err := assignment.NewLedger(config.DB).CourseCreated(&course); err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, course)
}

// UpdateCourseHandler updates a course and reconciles the teacher-side
// assignment records: a teacher change moves the record, a price change
// rewrites it in place.
func UpdateCourseHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := findCourse(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	oldTeacherID := course.TeacherID
	oldPrice := course.Price

	if input.Name != "" {
		course.Name = input.Name
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.OrgPrice != nil {
		course.OrgPrice = *input.OrgPrice
	}
	if input.DurationHours != nil {
		course.DurationHours = *input.DurationHours
	}
	if input.StartDate != nil {
		course.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		course.EndDate = input.EndDate
	}
	if input.Schedule != nil {
		course.Schedule = datatypes.NewJSONSlice(input.Schedule)
	}
	if input.Room != "" {
		course.Room = input.Room
	}
	if input.TeacherID != nil {
		course.TeacherID = input.TeacherID
	}
	if input.Status != "" {
		course.Status = input.Status
	}

	if err := config.DB.Save(course).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la mise à jour du cours", err))
		return
	}

	if err := assignment.NewLedger(config.DB).CourseUpdated(course, oldTeacherID, oldPrice); err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, course)
}

func DeleteCourseHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := findCourse(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := config.DB.Delete(course).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "échec de la suppression du cours", err))
		return
	}
	respondData(c, http.StatusOK, gin.H{})
}

// AddStudentToCourseHandler is the course-side entry point of enrollment:
// same operation as the student-side route, addressed from the course.
func AddStudentToCourseHandler(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	studentID, err := pathID(c, "studentId")
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := enrollment.NewCoordinator(config.DB).Enroll(enrollment.SubjectStudent, studentID, courseID)
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Étudiant ajouté au cours",
		"data": gin.H{
			"coursId":         record.CourseID,
			"prixFinal":       record.Price,
			"dateInscription": record.EnrolledAt,
		},
	})
}

// RemoveStudentFromCourseHandler unenrolls a student, restoring both sides.
func RemoveStudentFromCourseHandler(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	studentID, err := pathID(c, "studentId")
	if err != nil {
		respondError(c, err)
		return
	}

	err = enrollment.NewCoordinator(config.DB).Unenroll(enrollment.SubjectStudent, studentID, courseID)
	if err != nil && apperr.KindOf(err) != apperr.PartialFailure {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Étudiant retiré du cours")
}

// GetStudentsByCourseHandler resolves the course roster into student rows.
func GetStudentsByCourseHandler(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := findCourse(id)
	if err != nil {
		respondError(c, err)
		return
	}

	students := []models.Student{}
	if len(course.EnrolledStudentIDs) > 0 {
		if err := config.DB.Where("id IN ?", []uint(course.EnrolledStudentIDs)).Find(&students).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.Internal, "échec du chargement des étudiants", err))
			return
		}
	}
	respondList(c, students, len(students))
}

// GetCoursesByStudentHandler lists the courses a student is enrolled in,
// resolved from the student's own enrollment records.
func GetCoursesByStudentHandler(c *gin.Context) {
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

	ids := make([]uint, 0, len(student.Enrollments))
	for _, e := range student.Enrollments {
		ids = append(ids, e.CourseID)
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

func findCourse(id uint) (*models.Course, error) {
	var course models.Course
	if err := config.DB.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Cours non trouvé")
		}
		return nil, apperr.Wrap(apperr.Internal, "échec du chargement du cours", err)
	}
	return &course, nil
}
