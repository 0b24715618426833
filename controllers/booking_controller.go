package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := bc.BookingSvc.Create(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GET /api/bookings
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.BookingSvc.ListByUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// POST /api/bookings/:id/pay
func (bc *BookingController) ConfirmPayment(c *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := bc.BookingSvc.ConfirmPayment(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.Param("id"), req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
