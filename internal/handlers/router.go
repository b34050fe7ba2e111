package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitvs/coaching-service/internal/auth"
	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/services"
	"github.com/fitvs/coaching-service/internal/utils"
)

const serviceName = "coaching-service"

type HandlerManager struct {
	professorHandler *ProfessorHandler
	dashboardHandler *DashboardHandler
	studentHandler   *StudentHandler
	userHandler      *UserHandler
	authMiddleware   *AuthMiddleware
	health           func(ctx context.Context) error
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authenticator auth.Authenticator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		professorHandler: NewProfessorHandler(serviceManager.Assignment(), serviceManager.Roster(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		studentHandler:   NewStudentHandler(serviceManager.Directory(), logger),
		userHandler:      NewUserHandler(serviceManager.Directory(), logger),
		authMiddleware:   NewAuthMiddleware(authenticator, logger),
		health:           serviceManager.HealthCheck,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	professorOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor)
	studentOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.Authenticate())
	{
		v1.GET("/auth/profile", hm.userHandler.GetProfile)
		v1.GET("/professors", hm.userHandler.ListProfessors)
		v1.GET("/dashboard", hm.dashboardHandler.GetDashboard)

		// Professor routes
		professor := v1.Group("/professor")
		professor.Use(professorOnly)
		{
			professor.POST("/assign-students", hm.professorHandler.AssignStudents)
			professor.GET("/students", hm.professorHandler.ListStudents)
			professor.GET("/students/export", hm.professorHandler.ExportStudents)
			professor.POST("/roster/reconcile", hm.professorHandler.ReconcileRoster)
		}

		v1.GET("/students/unassigned", professorOnly, hm.professorHandler.ListUnassigned)

		// Student routes
		student := v1.Group("/student")
		student.Use(studentOnly)
		{
			student.GET("/professor", hm.studentHandler.GetProfessor)
			student.GET("/workouts", hm.studentHandler.ListWorkouts)
		}
	}

	// Health check endpoint
	router.GET("/health", hm.healthCheck)
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
