package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitvs/coaching-service/internal/services"
	"github.com/fitvs/coaching-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	directory services.DirectoryService
}

func NewUserHandler(directory services.DirectoryService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		directory:   directory,
	}
}

// GetProfile returns the current user
// @Summary Get current profile
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	h.LogRequest(c, "Getting profile")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	profile, err := h.directory.GetProfile(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfessors lists active professors
// @Summary List professors
// @Tags users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /professors [get]
func (h *UserHandler) ListProfessors(c *gin.Context) {
	h.LogRequest(c, "Listing professors")

	identity, ok := h.caller(c)
	if !ok {
		return
	}

	professors, err := h.directory.ListProfessors(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, professors)
}
