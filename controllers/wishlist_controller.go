package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type WishlistController struct {
	WishlistSvc *services.WishlistService
}

func NewWishlistController(svc *services.WishlistService) *WishlistController {
	return &WishlistController{WishlistSvc: svc}
}

// GET /api/wishlist
func (wc *WishlistController) GetWishlist(c *gin.Context) {
	items, err := wc.WishlistSvc.List(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

// POST /api/wishlist
func (wc *WishlistController) AddToWishlist(c *gin.Context) {
	var req models.AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := wc.WishlistSvc.Add(c.Request.Context(), c.GetString(middleware.ContextUserID), req.RoomID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, item)
}

// DELETE /api/wishlist/:id where id is the wishlist entry id.
func (wc *WishlistController) RemoveFromWishlist(c *gin.Context) {
	if err := wc.WishlistSvc.Remove(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"removed": c.Param("id")})
}
