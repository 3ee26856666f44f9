package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	listmodels "io.winapps.pushrelay/internal/models/list_users"
	registermodels "io.winapps.pushrelay/internal/models/register_user"
	"io.winapps.pushrelay/internal/registration"
)

type UsersHandler struct {
	manager *registration.Manager
	logger  *zap.SugaredLogger
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(manager *registration.Manager, logger *zap.SugaredLogger) *UsersHandler {
	return &UsersHandler{
		manager: manager,
		logger:  logger,
	}
}

// Register handles POST /api/users/register. Registration is idempotent on
// the delivery token: a known token answers 200 with the existing record, a
// new one answers 201.
func (h *UsersHandler) Register(c *gin.Context) {
	var req registermodels.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request format"})
		return
	}

	rec, created, err := h.manager.Register(c.Request.Context(), req.Name, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	data := registermodels.Response{
		UserID:    rec.UserID,
		Name:      rec.Name,
		Token:     rec.DeliveryToken,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}

	if created {
		respondSuccess(c, http.StatusCreated, "User registered successfully", data)
		return
	}
	respondSuccess(c, http.StatusOK, "User already registered", data)
}

// GetUser handles GET /api/users/:userId.
func (h *UsersHandler) GetUser(c *gin.Context) {
	rec, err := h.manager.Lookup(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "User found", rec)
}

// ListUsers handles GET /api/users. Diagnostics endpoint; raw delivery
// tokens are visible in the output.
func (h *UsersHandler) ListUsers(c *gin.Context) {
	users, err := h.manager.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Users fetched successfully", listmodels.Response{
		Users: users,
		Count: len(users),
	})
}
