package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/services"
	"github.com/fitvs/coaching-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProfessorHandler struct {
	BaseHandler
	assignment services.AssignmentService
	roster     services.RosterService
}

func NewProfessorHandler(assignment services.AssignmentService, roster services.RosterService, logger utils.Logger) *ProfessorHandler {
	return &ProfessorHandler{
		BaseHandler: NewBaseHandler(logger),
		assignment:  assignment,
		roster:      roster,
	}
}

// AssignStudents links unassigned students to the calling professor
// @Summary Assign students
// @Description Link a batch of unassigned students to the current professor. Ineligible ids are skipped.
// @Tags professor
// @Accept json
// @Produce json
// @Param request body models.AssignStudentsRequest true "Student ids"
// @Success 200 {object} services.AssignStudentsResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /professor/assign-students [post]
func (h *ProfessorHandler) AssignStudents(c *gin.Context) {
	h.LogRequest(c, "Assigning students")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	var req models.AssignStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.assignment.AssignStudents(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListStudents returns the professor's students with progress
// @Summary List my students
// @Tags professor
// @Produce json
// @Success 200 {array} models.StudentWithProgress
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /professor/students [get]
func (h *ProfessorHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing professor students")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	students, err := h.roster.ListStudents(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ExportStudents downloads the roster as a spreadsheet
// @Summary Export my students
// @Tags professor
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /professor/students/export [get]
func (h *ProfessorHandler) ExportStudents(c *gin.Context) {
	h.LogRequest(c, "Exporting professor students")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	data, err := h.roster.ExportStudents(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ReconcileRoster rebuilds the cached roster from the student links
// @Summary Reconcile roster
// @Tags professor
// @Produce json
// @Success 200 {object} services.ReconcileRosterResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /professor/roster/reconcile [post]
func (h *ProfessorHandler) ReconcileRoster(c *gin.Context) {
	h.LogRequest(c, "Reconciling roster")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	resp, err := h.roster.ReconcileRoster(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListUnassigned returns active students without a professor
// @Summary List unassigned students
// @Tags students
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /students/unassigned [get]
func (h *ProfessorHandler) ListUnassigned(c *gin.Context) {
	h.LogRequest(c, "Listing unassigned students")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	students, err := h.roster.ListUnassigned(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
