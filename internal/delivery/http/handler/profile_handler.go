package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/latidoapp/latido-backend/internal/domain"
	"github.com/latidoapp/latido-backend/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetProfile handles GET /profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")

	p, err := h.profileUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateMyProfile handles PUT /profiles/me
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.profileUseCase.Update(c.Request.Context(), userID.(string), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SearchProfiles handles GET /profiles
func (h *ProfileHandler) SearchProfiles(c *gin.Context) {
	var req profile.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid search parameters"})
		return
	}

	profiles, err := h.profileUseCase.Search(c.Request.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// HeartbeatRequest updates the caller's presence.
type HeartbeatRequest struct {
	Status string `json:"status" binding:"required,user_status"`
}

// Heartbeat handles POST /profiles/heartbeat
func (h *ProfileHandler) Heartbeat(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.profileUseCase.Heartbeat(c.Request.Context(), userID.(string), domain.UserStatus(req.Status))
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update presence"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
