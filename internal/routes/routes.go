// formajoy-api/internal/routes/routes.go

// Package routes wires the HTTP surface: public reads and auth endpoints,
// then role-gated groups per resource.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/baxirbajja/Formajoy-api/internal/handlers"
	"github.com/baxirbajja/Formajoy-api/internal/middleware"
	"github.com/baxirbajja/Formajoy-api/models"
)

// SetupRoutes registers every endpoint on the engine.
func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	setupAuthRoutes(api)
	setupStudentRoutes(api)
	setupTeacherRoutes(api)
	setupCourseRoutes(api)
	setupOrganizationRoutes(api)
	setupParticipantRoutes(api)
	setupSessionRoutes(api)
	setupAttendanceRoutes(api)
	setupPaymentRoutes(api)
}

func setupAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/register", handlers.RegisterHandler)
	auth.POST("/register-admin", handlers.RegisterAdminHandler)
	auth.POST("/login", handlers.LoginHandler)

	me := auth.Group("")
	me.Use(middleware.AuthMiddleware())
	me.GET("/me", handlers.MeHandler)
}

func setupStudentRoutes(api *gin.RouterGroup) {
	students := api.Group("/students")
	students.Use(middleware.AuthMiddleware())

	adminOnly := students.Group("")
	adminOnly.Use(middleware.RequireRoles(models.RoleAdmin))
	adminOnly.GET("", handlers.ListStudentsHandler)
	adminOnly.POST("", handlers.CreateStudentHandler)
	adminOnly.DELETE("/:id", handlers.DeleteStudentHandler)

	// A student may read and edit their own record; ownership is not checked
	// beyond the role gate, matching the coarse original policy.
	shared := students.Group("")
	shared.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStudent))
	shared.GET("/:id", handlers.GetStudentHandler)
	shared.PUT("/:id", handlers.UpdateStudentHandler)
	shared.POST("/:id/enroll/:courseId", handlers.EnrollStudentHandler)
}

func setupTeacherRoutes(api *gin.RouterGroup) {
	teachers := api.Group("/teachers")
	teachers.Use(middleware.AuthMiddleware())

	adminOnly := teachers.Group("")
	adminOnly.Use(middleware.RequireRoles(models.RoleAdmin))
	adminOnly.GET("", handlers.ListTeachersHandler)
	adminOnly.POST("", handlers.CreateTeacherHandler)
	adminOnly.PUT("/:id", handlers.UpdateTeacherHandler)
	adminOnly.DELETE("/:id", handlers.DeleteTeacherHandler)

	shared := teachers.Group("")
	shared.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	shared.GET("/:id", handlers.GetTeacherHandler)
}

func setupCourseRoutes(api *gin.RouterGroup) {
	courses := api.Group("/courses")

	// Catalog reads are public.
	courses.GET("", handlers.ListCoursesHandler)
	courses.GET("/:id", handlers.GetCourseHandler)
	courses.GET("/teacher/:id", handlers.GetCoursesByTeacherHandler)
	courses.GET("/student/:id", handlers.GetCoursesByStudentHandler)

	adminOnly := courses.Group("")
	adminOnly.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))
	adminOnly.POST("", handlers.CreateCourseHandler)
	adminOnly.PUT("/:id", handlers.UpdateCourseHandler)
	adminOnly.DELETE("/:id", handlers.DeleteCourseHandler)
	adminOnly.GET("/:id/students", handlers.GetStudentsByCourseHandler)
	adminOnly.POST("/:id/students/:studentId", handlers.AddStudentToCourseHandler)
	adminOnly.DELETE("/:id/students/:studentId", handlers.RemoveStudentFromCourseHandler)
}

func setupOrganizationRoutes(api *gin.RouterGroup) {
	orgs := api.Group("/organizations")
	orgs.Use(middleware.AuthMiddleware())

	adminOnly := orgs.Group("")
	adminOnly.Use(middleware.RequireRoles(models.RoleAdmin))
	adminOnly.GET("", handlers.ListOrganizationsHandler)
	adminOnly.POST("", handlers.CreateOrganizationHandler)
	adminOnly.DELETE("/:id", handlers.DeleteOrganizationHandler)

	shared := orgs.Group("")
	shared.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleOrganization))
	shared.GET("/:id", handlers.GetOrganizationHandler)
	shared.PUT("/:id", handlers.UpdateOrganizationHandler)
	shared.GET("/:id/participants", handlers.GetParticipantsByOrganizationHandler)
}

func setupParticipantRoutes(api *gin.RouterGroup) {
	participants := api.Group("/participants")
	participants.Use(middleware.AuthMiddleware())

	shared := participants.Group("")
	shared.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleOrganization))
	shared.GET("", handlers.ListParticipantsHandler)
	shared.GET("/:id", handlers.GetParticipantHandler)
	shared.POST("", handlers.CreateParticipantHandler)
	shared.PUT("/:id", handlers.UpdateParticipantHandler)
	shared.DELETE("/:id", handlers.DeleteParticipantHandler)
	shared.POST("/:id/enroll/:courseId", handlers.EnrollParticipantHandler)
}

func setupSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")

	// Schedule reads are public, like the course catalog.
	sessions.GET("", handlers.ListSessionsHandler)
	sessions.GET("/:id", handlers.GetSessionHandler)
	sessions.GET("/course/:courseId", handlers.GetSessionsByCourseHandler)

	staff := sessions.Group("")
	staff.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	staff.POST("", handlers.CreateSessionHandler)
	staff.PUT("/:id", handlers.UpdateSessionHandler)
	staff.PUT("/:id/status", handlers.UpdateSessionStatusHandler)
	staff.DELETE("/:id", handlers.DeleteSessionHandler)
}

func setupAttendanceRoutes(api *gin.RouterGroup) {
	attendances := api.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())

	staff := attendances.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	staff.GET("", handlers.ListAttendancesHandler)
	staff.GET("/:id", handlers.GetAttendanceHandler)
	staff.GET("/session/:sessionId", handlers.GetAttendancesBySessionHandler)
	staff.POST("", handlers.CreateAttendanceHandler)
	staff.POST("/mark", handlers.MarkAttendanceHandler)
	staff.PUT("/:id", handlers.UpdateAttendanceHandler)
	staff.DELETE("/:id", handlers.DeleteAttendanceHandler)
}

func setupPaymentRoutes(api *gin.RouterGroup) {
	payments := api.Group("/payments")
	payments.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))
	payments.GET("", handlers.ListPaymentsHandler)
	payments.GET("/export", handlers.ExportPaymentsHandler)
	payments.GET("/:id", handlers.GetPaymentHandler)
	payments.GET("/recipient/:model/:id", handlers.GetPaymentsByRecipientHandler)
	payments.POST("", handlers.CreatePaymentHandler)
	payments.PUT("/:id", handlers.UpdatePaymentHandler)
	payments.PUT("/:id/status", handlers.UpdatePaymentStatusHandler)
	payments.DELETE("/:id", handlers.DeletePaymentHandler)
}
