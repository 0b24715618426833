package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// GET /api/rooms
func (rc *RoomController) GetRooms(c *gin.Context) {
	var q models.RoomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	rooms, err := rc.RoomSvc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.RoomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		badRequest(c, err)
		return
	}
	room.ID = ""
	created, err := rc.RoomSvc.Create(c.Request.Context(), room)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// PATCH /api/rooms/:id/availability
func (rc *RoomController) SetAvailability(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := rc.RoomSvc.SetAvailability(c.Request.Context(), c.Param("id"), *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}
