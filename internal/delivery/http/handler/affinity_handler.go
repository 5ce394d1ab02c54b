package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/usecase/affinity"
)

type AffinityHandler struct {
	affinityUseCase *affinity.AffinityUseCase
}

func NewAffinityHandler(affinityUseCase *affinity.AffinityUseCase) *AffinityHandler {
	return &AffinityHandler{
		affinityUseCase: affinityUseCase,
	}
}

// ExpressInterestRequest creates a new affinity toward recipient_id.
type ExpressInterestRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
}

// RespondRequest resolves a pending affinity.
type RespondRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept reject"`
}

// ExpressInterest handles POST /affinities
func (h *AffinityHandler) ExpressInterest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ExpressInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.affinityUseCase.ExpressInterest(c.Request.Context(), userID.(string), req.RecipientID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfAffinity):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "cannot express interest in yourself"})
		case errors.Is(err, domain.ErrAffinityExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "an outstanding affinity already exists"})
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to express interest"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Respond handles POST /affinities/:id/respond
func (h *AffinityHandler) Respond(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.affinityUseCase.Respond(c.Request.Context(), c.Param("id"), req.Decision == "accept", userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAffinityNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "affinity not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the recipient may respond"})
		case errors.Is(err, domain.ErrAffinityResolved):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "affinity already resolved"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to respond"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Withdraw handles DELETE /affinities/:id
func (h *AffinityHandler) Withdraw(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	err := h.affinityUseCase.Withdraw(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAffinityNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "affinity not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the initiator may withdraw"})
		case errors.Is(err, domain.ErrAffinityResolved):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "affinity already resolved"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to withdraw"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// List handles GET /affinities?role=received|sent|matches
func (h *AffinityHandler) List(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	role, err := affinity.ParseRole(c.DefaultQuery("role", string(affinity.RoleReceived)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role must be received, sent or matches"})
		return
	}

	affinities, err := h.affinityUseCase.ListFor(c.Request.Context(), userID.(string), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list affinities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"affinities": affinities,
		"count":      len(affinities),
	})
}
