package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// UserHandler serves user CRUD endpoints.
type UserHandler struct {
	repo UserRepository
	log  *logrus.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(repo UserRepository, log *logrus.Logger) *UserHandler {
	return &UserHandler{repo: repo, log: log}
}

// List handles GET /users. An optional team_id query narrows to one team.
func (h *UserHandler) List(c *gin.Context) {
	teamID, ok := queryInt64(c, "team_id")
	if !ok {
		return
	}

	users, err := h.repo.ListUsers(c.Request.Context(), teamID)
	if err != nil {
		respondDomainError(c, h.log, err, "listing users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.repo.GetUser(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.repo.CreateUser(c.Request.Context(), actorEmail(c), req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.repo.UpdateUser(c.Request.Context(), actorEmail(c), id, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteUser(c.Request.Context(), actorEmail(c), id); err != nil {
		respondDomainError(c, h.log, err, "deleting user")
		return
	}

	c.Status(http.StatusNoContent)
}
