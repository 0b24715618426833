package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

// POST /api/auth/signup
func (ac *AuthController) SignUp(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.AuthSvc.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// POST /api/auth/signin
func (ac *AuthController) SignIn(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.AuthSvc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// POST /api/auth/signout
func (ac *AuthController) SignOut(c *gin.Context) {
	if err := ac.AuthSvc.SignOut(c.Request.Context(), c.GetString(middleware.ContextUserID)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"signedOut": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, services.ErrUnauthenticated)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
