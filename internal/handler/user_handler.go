package handler

import (
	"net/http"

	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a user under an optional referrer.
// POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,max=64"`
		Email    string `json:"email" binding:"omitempty,email"`
		Referrer string `json:"referrer" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Referrer: req.Referrer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get returns the user with license, wallets and bonuses.
// GET /users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeReferrer moves the user under another referrer; an empty referrer makes it a root.
// PATCH /users/:username/referrer
func (h *UserHandler) ChangeReferrer(c *gin.Context) {
	var req struct {
		Referrer string `json:"referrer" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.ChangeReferrer(c.Request.Context(), c.Param("username"), req.Referrer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
