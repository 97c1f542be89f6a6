package handlers

import (
	"net/http"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService services.LocationService
}

func NewLocationHandler(ls services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: ls}
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req services.CreateLocationRequest
	if !bindJSON(c, "CreateLocation", &req) {
		return
	}
	location, err := h.locationService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateLocation", err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.locationService.GetLocations(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetLocations", err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocationByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	location, err := h.locationService.GetLocationByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetLocationByID", err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateLocationRequest
	if !bindJSON(c, "UpdateLocation", &req) {
		return
	}
	location, err := h.locationService.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdateLocation", err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.locationService.DeleteLocation(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeleteLocation", err)
		return
	}
	c.Status(http.StatusNoContent)
}
