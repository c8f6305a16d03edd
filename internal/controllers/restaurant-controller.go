package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-restaurant-api/internal/models"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RestaurantController handles HTTP requests related to restaurants
type RestaurantController interface {
	// GetAllRestaurants retrieves all active restaurants
	GetAllRestaurants(c *gin.Context)
	// GetRestaurantByID retrieves a restaurant by its ID
	GetRestaurantByID(c *gin.Context)
	// CreateRestaurant creates a new restaurant
	CreateRestaurant(c *gin.Context)
	// UpdateRestaurant partially updates an existing restaurant
	UpdateRestaurant(c *gin.Context)
	// DisableRestaurant soft-deletes a restaurant
	DisableRestaurant(c *gin.Context)
	// DeleteRestaurant permanently deletes a restaurant
	DeleteRestaurant(c *gin.Context)
	// SearchRestaurants searches active restaurants by name
	SearchRestaurants(c *gin.Context)
	// FilterRestaurants filters active restaurants by exact criteria
	FilterRestaurants(c *gin.Context)
	// PaginateRestaurants returns one page of active restaurants
	PaginateRestaurants(c *gin.Context)
	// SortRestaurants sorts active restaurants by a field
	SortRestaurants(c *gin.Context)
	// BulkCreateRestaurants inserts a batch of restaurants
	BulkCreateRestaurants(c *gin.Context)
	// TopRatedRestaurants returns the highest rated active restaurants
	TopRatedRestaurants(c *gin.Context)
	// RandomRestaurant returns a randomly sampled active restaurant
	RandomRestaurant(c *gin.Context)
	// DisabledRestaurants returns all soft-deleted restaurants
	DisabledRestaurants(c *gin.Context)
	// NearbyRestaurants returns active restaurants within a radius
	NearbyRestaurants(c *gin.Context)
	// RecentRestaurants returns recently created active restaurants
	RecentRestaurants(c *gin.Context)
}

type controller struct {
	service services.RestaurantService
}

// NewRestaurantController creates a new instance of RestaurantController
func NewRestaurantController(service services.RestaurantService) *controller {
	return &controller{service: service}
}

// respondError maps service failures to HTTP status codes: a not-found
// sentinel becomes 404, anything else is an opaque infrastructure failure.
func respondError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrRestaurantNotFound) {
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrRestaurantNotFound, "Restaurant not found"))
		return
	}
	ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
}

// GetAllRestaurants godoc
// @Summary Get all restaurants
// @Description Get a list of all active restaurants
// @Tags restaurants
// @Accept json
// @Produce json
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants [get]
func (c *controller) GetAllRestaurants(ctx *gin.Context) {
	restaurants, err := c.service.GetAllRestaurants(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// GetRestaurantByID godoc
// @Summary Get restaurant by ID
// @Description Get a single restaurant by its ID, including disabled ones
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} models.Restaurant
// @Failure 404 {object} models.APIError
// @Router /api/restaurants/{id} [get]
func (c *controller) GetRestaurantByID(ctx *gin.Context) {
	restaurant, err := c.service.GetRestaurantByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurant)
}

// CreateRestaurant godoc
// @Summary Create a new restaurant
// @Description Create a new restaurant with the input payload
// @Tags restaurants
// @Accept json
// @Produce json
// @Param restaurant body models.RestaurantInput true "Restaurant object"
// @Success 201 {object} models.Restaurant
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/restaurants [post]
func (c *controller) CreateRestaurant(ctx *gin.Context) {
	var input models.RestaurantInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrRestaurantInvalidData, "Invalid request body"))
		return
	}

	restaurant, err := c.service.CreateRestaurant(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, restaurant)
}

// UpdateRestaurant godoc
// @Summary Update a restaurant
// @Description Update the fields present in the payload, leaving the rest unchanged
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param restaurant body models.RestaurantInput true "Fields to update"
// @Success 200 {object} models.Restaurant
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/restaurants/{id} [put]
func (c *controller) UpdateRestaurant(ctx *gin.Context) {
	var input models.RestaurantInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrRestaurantInvalidData, "Invalid request body"))
		return
	}

	restaurant, err := c.service.UpdateRestaurant(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurant)
}

// DisableRestaurant godoc
// @Summary Disable a restaurant
// @Description Soft-delete a restaurant so it disappears from active views
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.APIError
// @Router /api/restaurants/{id}/disable [patch]
func (c *controller) DisableRestaurant(ctx *gin.Context) {
	if err := c.service.DisableRestaurant(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.MessageResponse{Message: "Restaurant disabled successfully"})
}

// DeleteRestaurant godoc
// @Summary Delete a restaurant
// @Description Permanently remove a restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.APIError
// @Router /api/restaurants/{id} [delete]
func (c *controller) DeleteRestaurant(ctx *gin.Context) {
	if err := c.service.DeleteRestaurant(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.MessageResponse{Message: "Restaurant deleted permanently"})
}

// SearchRestaurants godoc
// @Summary Search restaurants by name
// @Description Case-insensitive substring search over active restaurant names
// @Tags restaurants
// @Accept json
// @Produce json
// @Param query path string true "Search term"
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/search/{query} [get]
func (c *controller) SearchRestaurants(ctx *gin.Context) {
	restaurants, err := c.service.SearchRestaurants(ctx.Request.Context(), ctx.Param("query"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// FilterRestaurants godoc
// @Summary Filter restaurants
// @Description Filter active restaurants by exact cuisine, city and rating
// @Tags restaurants
// @Accept json
// @Produce json
// @Param cuisine query string false "Cuisine to match exactly"
// @Param city query string false "City to match exactly"
// @Param rating query number false "Rating to match exactly"
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/filter [get]
func (c *controller) FilterRestaurants(ctx *gin.Context) {
	criteria := map[string]interface{}{
		"cuisine": ctx.Query("cuisine"),
		"city":    ctx.Query("city"),
	}
	// Rating is stored numerically, so a parseable value is matched as a
	// float; anything else is passed through as-is.
	if rating := ctx.Query("rating"); rating != "" {
		if f, ok := models.ToFloatOK(rating); ok {
			criteria["rating"] = f
		} else {
			criteria["rating"] = rating
		}
	}

	restaurants, err := c.service.FilterRestaurants(ctx.Request.Context(), criteria)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// PaginateRestaurants godoc
// @Summary Paginate restaurants
// @Description Return one page of active restaurants in natural order
// @Tags restaurants
// @Accept json
// @Produce json
// @Param page path int true "1-indexed page number"
// @Param per_page query int false "Page size" default(10)
// @Success 200 {object} models.PaginatedRestaurants
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/page/{page} [get]
func (c *controller) PaginateRestaurants(ctx *gin.Context) {
	// Unparseable values fall through as zero and are clamped by the service.
	page, _ := strconv.Atoi(ctx.Param("page"))
	perPage, _ := strconv.Atoi(ctx.DefaultQuery("per_page", "10"))

	result, err := c.service.PaginateRestaurants(ctx.Request.Context(), page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// SortRestaurants godoc
// @Summary Sort restaurants
// @Description Sort active restaurants by the named field
// @Tags restaurants
// @Accept json
// @Produce json
// @Param field path string true "Field to sort by"
// @Param order query string false "asc or desc" default(asc)
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/sort/{field} [get]
func (c *controller) SortRestaurants(ctx *gin.Context) {
	restaurants, err := c.service.SortRestaurants(ctx.Request.Context(), ctx.Param("field"), ctx.DefaultQuery("order", "asc"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// BulkCreateRestaurants godoc
// @Summary Bulk create restaurants
// @Description Insert a batch of restaurants in a single operation
// @Tags restaurants
// @Accept json
// @Produce json
// @Param restaurants body models.BulkRestaurantsInput true "Restaurants to insert"
// @Success 201 {object} models.BulkCreateResult
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/bulk [post]
func (c *controller) BulkCreateRestaurants(ctx *gin.Context) {
	var input models.BulkRestaurantsInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrRestaurantInvalidData, "Invalid request body"))
		return
	}

	result, err := c.service.BulkCreateRestaurants(ctx.Request.Context(), input.Restaurants)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// TopRatedRestaurants godoc
// @Summary Top rated restaurants
// @Description Return the highest rated active restaurants
// @Tags restaurants
// @Accept json
// @Produce json
// @Param limit path int true "Maximum number of results"
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/top/{limit} [get]
func (c *controller) TopRatedRestaurants(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Param("limit"))

	restaurants, err := c.service.TopRatedRestaurants(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// RandomRestaurant godoc
// @Summary Random restaurant
// @Description Return one uniformly sampled active restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Success 200 {object} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/random [get]
func (c *controller) RandomRestaurant(ctx *gin.Context) {
	restaurant, err := c.service.RandomRestaurant(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	if restaurant == nil {
		// Empty collection yields an empty object, not a 404.
		ctx.JSON(http.StatusOK, gin.H{})
		return
	}
	ctx.JSON(http.StatusOK, restaurant)
}

// DisabledRestaurants godoc
// @Summary Disabled restaurants
// @Description Return all soft-deleted restaurants
// @Tags restaurants
// @Accept json
// @Produce json
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/disabled [get]
func (c *controller) DisabledRestaurants(ctx *gin.Context) {
	restaurants, err := c.service.DisabledRestaurants(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// NearbyRestaurants godoc
// @Summary Nearby restaurants
// @Description Return active restaurants within radius km of a point
// @Tags restaurants
// @Accept json
// @Produce json
// @Param lat query number true "Latitude in degrees"
// @Param lng query number true "Longitude in degrees"
// @Param radius query number false "Radius in kilometers" default(5)
// @Success 200 {array} models.Restaurant
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/nearby [get]
func (c *controller) NearbyRestaurants(ctx *gin.Context) {
	lat, hasLat := ctx.GetQuery("lat")
	lng, hasLng := ctx.GetQuery("lng")
	if !hasLat || !hasLng {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "lat and lng are required"))
		return
	}
	radius := ctx.DefaultQuery("radius", "5")

	restaurants, err := c.service.NearbyRestaurants(ctx.Request.Context(),
		models.ToFloat(lat), models.ToFloat(lng), models.ToFloat(radius))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}

// RecentRestaurants godoc
// @Summary Recent restaurants
// @Description Return active restaurants created within the last N days
// @Tags restaurants
// @Accept json
// @Produce json
// @Param days path int true "Number of days to look back"
// @Success 200 {array} models.Restaurant
// @Failure 500 {object} models.APIError
// @Router /api/restaurants/recent/{days} [get]
func (c *controller) RecentRestaurants(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.Param("days"))

	restaurants, err := c.service.RecentRestaurants(ctx.Request.Context(), days)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurants)
}
