package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/userstore/internal/server/http/dto"
)

// UserHandler exposes user store operations over HTTP.
type UserHandler struct {
	facade UserFacade
	logger *slog.Logger
}

// NewUserHandler creates UserHandler instance.
func NewUserHandler(facade UserFacade, logger *slog.Logger) *UserHandler {
	return &UserHandler{facade: facade, logger: logger}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	user, err := h.facade.CreateUser(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.UpdateUser(c.Request.Context(), id, req.Login, req.Password); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.DeleteUser(c.Request.Context(), id); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.facade.Users(c.Request.Context())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	user, err := h.facade.User(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// GetByLogin handles GET /api/users/by-login/:login.
func (h *UserHandler) GetByLogin(c *gin.Context) {
	user, err := h.facade.UserByLogin(c.Request.Context(), c.Param("login"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// Search handles GET /api/users/search?login=key.
func (h *UserHandler) Search(c *gin.Context) {
	key := c.Query("login")
	if key == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	users, err := h.facade.SearchUsers(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// Verify handles POST /api/users/verify.
func (h *UserHandler) Verify(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.VerifyCredentials(c.Request.Context(), req.Login, req.Password); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HealthHandler reports readiness of the service.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Ready handles GET /healthz.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.facade.Ready(c.Request.Context()); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}
