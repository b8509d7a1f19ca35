package handler

import (
	"net/http"
	"strconv"

	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	network *service.NetworkService
}

func NewReferralHandler(network *service.NetworkService) *ReferralHandler {
	return &ReferralHandler{network: network}
}

// GetNetwork returns the user's downline with ranks and licenses.
// GET /users/:username/network
func (h *ReferralHandler) GetNetwork(c *gin.Context) {
	members, err := h.network.ComputeUserNetwork(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "total": len(members)})
}

// GetUpline returns the user's ancestors, nearest first.
// GET /users/:username/upline?depth=10
func (h *ReferralHandler) GetUpline(c *gin.Context) {
	depth, err := strconv.Atoi(c.DefaultQuery("depth", "10"))
	if err != nil || depth < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be a non-negative integer"})
		return
	}
	entries, err := h.network.Upline(c.Request.Context(), c.Param("username"), depth)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upline": entries})
}

// GetDownline returns the user's descendants; depth=-1 walks to the leaves.
// GET /users/:username/downline?depth=-1
func (h *ReferralHandler) GetDownline(c *gin.Context) {
	depth, err := strconv.Atoi(c.DefaultQuery("depth", "-1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be an integer"})
		return
	}
	entries, err := h.network.Downline(c.Request.Context(), c.Param("username"), depth)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downline": entries})
}
