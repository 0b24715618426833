package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type ProfileController struct {
	ProfileSvc *services.ProfileService
}

func NewProfileController(svc *services.ProfileService) *ProfileController {
	return &ProfileController{ProfileSvc: svc}
}

// GET /api/profile
func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, err := pc.ProfileSvc.Get(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, profile)
}

// PATCH /api/profile
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	profile, err := pc.ProfileSvc.Update(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, profile)
}
