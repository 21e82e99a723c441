package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"address-api/internal/models"
	"address-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Response messages.
const (
	MessageMissingFields = "Please provide all required information"
	MessageCreated       = "Address created successfully"
	MessageUpdated       = "Address updated successfully"
	MessageDeleted       = "Address deleted successfully"
)

// AddressHandler handles address CRUD and proximity requests
type AddressHandler struct {
	service AddressService
}

// Service interface for dependency injection
type AddressService interface {
	Create(ctx context.Context, input models.AddressInput) (*models.Address, error)
	Update(ctx context.Context, id string, input models.AddressInput) (*models.Address, error)
	Delete(ctx context.Context, id string) error
	FindNear(ctx context.Context, query models.NearQuery) ([]models.Address, error)
}

// AddressResponse is returned by create and update. Address is null when update matched nothing.
type AddressResponse struct {
	Message string          `json:"message"`
	Address *models.Address `json:"address"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// AddressesResponse is returned by the proximity search.
type AddressesResponse struct {
	Addresses []models.Address `json:"addresses"`
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(svc AddressService) *AddressHandler {
	return &AddressHandler{service: svc}
}

// RegisterRoutes mounts the address routes on rg.
func (h *AddressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	addresses := rg.Group("/addresses")
	addresses.POST("", h.Create)
	addresses.GET("/nearby", h.FindNear)
	addresses.PUT("/:id", h.Update)
	addresses.PATCH("/:id", h.Update)
	addresses.DELETE("/:id", h.Delete)
}

// Create handles POST /api/addresses requests
//
//	@Summary	Create an address
//	@Tags		addresses
//	@Accept		json
//	@Produce	json
//	@Param		address	body		models.AddressInput	true	"Address"
//	@Success	201		{object}	AddressResponse
//	@Failure	400		{object}	MessageResponse
//	@Failure	500		{object}	MessageResponse
//	@Router		/api/addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var input models.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: MessageMissingFields})
		return
	}

	address, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, AddressResponse{Message: MessageCreated, Address: address})
}

// Update handles PUT and PATCH /api/addresses/:id requests. Both replace every field.
//
//	@Summary	Replace an address
//	@Tags		addresses
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Address ID"
//	@Param		address	body		models.AddressInput	true	"Address"
//	@Success	200		{object}	AddressResponse
//	@Failure	400		{object}	MessageResponse
//	@Failure	500		{object}	MessageResponse
//	@Router		/api/addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	var input models.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: MessageMissingFields})
		return
	}

	address, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AddressResponse{Message: MessageUpdated, Address: address})
}

// Delete handles DELETE /api/addresses/:id requests
//
//	@Summary	Delete an address
//	@Tags		addresses
//	@Produce	json
//	@Param		id	path		string	true	"Address ID"
//	@Success	200	{object}	MessageResponse
//	@Failure	500	{object}	MessageResponse
//	@Router		/api/addresses/{id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: MessageDeleted})
}

// FindNear handles GET /api/addresses/nearby requests
//
//	@Summary	Find addresses within a distance of a point, nearest first
//	@Tags		addresses
//	@Produce	json
//	@Param		latitude	query		number	true	"Latitude"
//	@Param		longitude	query		number	true	"Longitude"
//	@Param		distance	query		number	true	"Maximum distance in meters"
//	@Success	200			{object}	AddressesResponse
//	@Failure	400			{object}	MessageResponse
//	@Failure	500			{object}	MessageResponse
//	@Router		/api/addresses/nearby [get]
func (h *AddressHandler) FindNear(c *gin.Context) {
	lat, latOK := queryFloat(c, "latitude")
	lon, lonOK := queryFloat(c, "longitude")
	distance, distanceOK := queryFloat(c, "distance")

	if !latOK || !lonOK || !distanceOK {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: MessageMissingFields})
		return
	}

	addresses, err := h.service.FindNear(c.Request.Context(), models.NearQuery{
		Latitude:    lat,
		Longitude:   lon,
		MaxDistance: distance,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AddressesResponse{Addresses: addresses})
}

// fail answers validation errors and hands everything else to the error middleware.
func (h *AddressHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrValidation) {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: MessageMissingFields})
		return
	}
	_ = c.Error(err)
}

func queryFloat(c *gin.Context, key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
