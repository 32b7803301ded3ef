// formajoy-api/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/middleware"
	"github.com/baxirbajja/Formajoy-api/internal/routes"
	"github.com/baxirbajja/Formajoy-api/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on the environment")
	}

	config.LoadJWT()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.Admin{},
		&models.Teacher{},
		&models.Student{},
		&models.Organization{},
		&models.Participant{},
		&models.Course{},
		&models.Session{},
		&models.Attendance{},
		&models.Payment{},
	); err != nil {
		slog.Error("auto migration failed", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	r.Use(middleware.RequestID())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	slog.Info("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
