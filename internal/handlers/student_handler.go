package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitvs/coaching-service/internal/services"
	"github.com/fitvs/coaching-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	directory services.DirectoryService
}

func NewStudentHandler(directory services.DirectoryService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		directory:   directory,
	}
}

// ===== STUDENT ENDPOINTS =====

// GetProfessor returns the current student with their professor
// @Summary Get my professor
// @Tags student
// @Produce json
// @Success 200 {object} services.StudentProfessorResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /student/professor [get]
func (h *StudentHandler) GetProfessor(c *gin.Context) {
	h.LogRequest(c, "Getting student professor")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.directory.GetStudentProfessor(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListWorkouts returns the current student's workouts, newest first
// @Summary List my workouts
// @Tags student
// @Produce json
// @Success 200 {array} models.Workout
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /student/workouts [get]
func (h *StudentHandler) ListWorkouts(c *gin.Context) {
	h.LogRequest(c, "Listing student workouts")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	workouts, err := h.directory.ListStudentWorkouts(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workouts)
}
