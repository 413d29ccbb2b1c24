package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tidybook-api/res/store"
	"tidybook-api/sys/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

type serviceAreaInput struct {
	City        string  `json:"city"`
	ZipCode     string  `json:"zipCode"`
	TravelFee   float64 `json:"travelFee"`
	IsPreferred bool    `json:"isPreferred"`
}

type createProviderRequest struct {
	BusinessName      string   `json:"businessName"`
	Bio               string   `json:"bio"`
	Services          []string `json:"services"`
	MinimumHours      float64  `json:"minimumHours"`
	InstantBooking    bool     `json:"instantBooking"`
	ResponseTimeHours int      `json:"responseTimeHours"`

	ServiceAreas []serviceAreaInput `json:"serviceAreas"`
}

type updateProviderRequest struct {
	BusinessName      *string  `json:"businessName"`
	Bio               *string  `json:"bio"`
	Services          []string `json:"services"`
	MinimumHours      *float64 `json:"minimumHours"`
	InstantBooking    *bool    `json:"instantBooking"`
	ResponseTimeHours *int     `json:"responseTimeHours"`
}

type providerResponse struct {
	ID             string   `json:"id"`
	BusinessName   string   `json:"businessName"`
	Bio            string   `json:"bio,omitempty"`
	ApprovalStatus string   `json:"approvalStatus"`
	Services       []string `json:"services"`

	MinimumHours      float64 `json:"minimumHours"`
	InstantBooking    bool    `json:"instantBooking"`
	ResponseTimeHours int     `json:"responseTimeHours"`

	CreatedAt time.Time `json:"createdAt"`
}

type serviceAreaResponse struct {
	ID          string  `json:"id"`
	City        string  `json:"city"`
	ZipCode     string  `json:"zipCode"`
	TravelFee   float64 `json:"travelFee"`
	IsPreferred bool    `json:"isPreferred"`
}

// handleCreateProvider registers a provider profile for the calling user.
// New profiles start in pending_review and only take bookings once approved.
func (api *API) handleCreateProvider(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "malformed request body")
		return
	}

	if req.BusinessName == "" {
		respondBadRequest(c, "businessName is required")
		return
	}
	if len(req.Services) == 0 {
		respondBadRequest(c, "at least one service is required")
		return
	}
	if req.MinimumHours < 0 {
		respondBadRequest(c, "minimumHours must not be negative")
		return
	}
	for _, area := range req.ServiceAreas {
		if area.ZipCode == "" {
			respondBadRequest(c, "serviceAreas entries require a zipCode")
			return
		}
	}
	if req.MinimumHours == 0 {
		req.MinimumHours = 1
	}
	if req.ResponseTimeHours <= 0 {
		req.ResponseTimeHours = 24
	}

	existing, _ := api.Store.Providers().GetByUserID(ctx, currentUser.ID)
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{"code": "CONFLICT", "message": "provider profile already exists for this user"},
		})
		return
	}

	servicesJSON, err := json.Marshal(req.Services)
	if err != nil {
		api.Logger.Printf("Error marshaling services: %s", err)
		respondInternalError(c)
		return
	}

	provider := &store.Provider{
		ID:     newProviderID(),
		UserID: currentUser.ID,

		BusinessName: req.BusinessName,
		Bio:          req.Bio,

		ApprovalStatus: store.ApprovalStatusPendingReview,

		Services:          string(servicesJSON),
		MinimumHours:      req.MinimumHours,
		InstantBooking:    req.InstantBooking,
		ResponseTimeHours: req.ResponseTimeHours,

		Tier: store.TierFree,
	}

	if err := api.Store.Providers().Create(ctx, provider); err != nil {
		api.Logger.Printf("Error creating provider profile: %s", err)
		respondInternalError(c)
		return
	}

	areas := make([]*store.ServiceArea, 0, len(req.ServiceAreas))
	for _, areaInput := range req.ServiceAreas {
		area := &store.ServiceArea{
			ID:         newServiceAreaID(),
			ProviderID: provider.ID,

			City:    areaInput.City,
			ZipCode: areaInput.ZipCode,

			TravelFee:   areaInput.TravelFee,
			IsPreferred: areaInput.IsPreferred,
		}

		if err := api.Store.ServiceAreas().Create(ctx, area); err != nil {
			api.Logger.Printf("Error creating service area: %s", err)
			// Continue creating other areas
			continue
		}
		areas = append(areas, area)
	}

	c.JSON(http.StatusCreated, gin.H{
		"provider":     toProviderResponse(provider),
		"serviceAreas": toServiceAreaResponses(areas),
	})
}

func (api *API) handleGetMyProvider(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	provider, err := api.Store.Providers().GetByUserID(ctx, currentUser.ID)
	if err != nil || provider == nil {
		respondProviderNotFound(c)
		return
	}

	areas, err := api.Store.ServiceAreas().GetByProvider(ctx, provider.ID)
	if err != nil {
		api.Logger.Printf("Error retrieving service areas for provider %s: %s", provider.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":     toProviderResponse(provider),
		"serviceAreas": toServiceAreaResponses(areas),
	})
}

func (api *API) handleUpdateProvider(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	var req updateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "malformed request body")
		return
	}

	provider, err := api.Store.Providers().GetByUserID(ctx, currentUser.ID)
	if err != nil || provider == nil {
		respondProviderNotFound(c)
		return
	}

	if req.BusinessName != nil {
		if *req.BusinessName == "" {
			respondBadRequest(c, "businessName must not be empty")
			return
		}
		provider.BusinessName = *req.BusinessName
	}
	if req.Bio != nil {
		provider.Bio = *req.Bio
	}
	if req.Services != nil {
		if len(req.Services) == 0 {
			respondBadRequest(c, "at least one service is required")
			return
		}
		servicesJSON, err := json.Marshal(req.Services)
		if err != nil {
			api.Logger.Printf("Error marshaling services: %s", err)
			respondInternalError(c)
			return
		}
		provider.Services = string(servicesJSON)
	}
	if req.MinimumHours != nil {
		if *req.MinimumHours <= 0 {
			respondBadRequest(c, "minimumHours must be positive")
			return
		}
		provider.MinimumHours = *req.MinimumHours
	}
	if req.InstantBooking != nil {
		provider.InstantBooking = *req.InstantBooking
	}
	if req.ResponseTimeHours != nil {
		if *req.ResponseTimeHours <= 0 {
			respondBadRequest(c, "responseTimeHours must be positive")
			return
		}
		provider.ResponseTimeHours = *req.ResponseTimeHours
	}

	if err := api.Store.Providers().Update(ctx, provider); err != nil {
		api.Logger.Printf("Error updating provider profile %s: %s", provider.ID, err)
		respondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": toProviderResponse(provider)})
}

// handleListProviders is the public directory: ?zip= searches providers
// serving a ZIP code, otherwise approved profiles are listed newest first.
func (api *API) handleListProviders(c *gin.Context) {
	ctx := c.Request.Context()

	if zip := c.Query("zip"); zip != "" {
		providers, err := api.Store.ServiceAreas().FindProvidersByZip(ctx, zip)
		if err != nil {
			api.Logger.Printf("Error finding providers for zip %s: %s", zip, err)
			respondInternalError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"providers": toProviderResponses(providers)})
		return
	}

	approved := store.ApprovalStatusApproved
	filters := store.ProviderFilters{
		ApprovalStatus: &approved,
		Limit:          20,
		OrderBy:        "created_at DESC",
	}
	if limitVal := c.Query("limit"); limitVal != "" {
		if limit, err := strconv.Atoi(limitVal); err == nil && limit > 0 && limit <= 100 {
			filters.Limit = limit
		}
	}
	if instantVal := c.Query("instantBooking"); instantVal != "" {
		instant := instantVal == "true"
		filters.InstantBooking = &instant
	}

	providers, err := api.Store.Providers().List(ctx, filters)
	if err != nil {
		api.Logger.Printf("Error listing providers: %s", err)
		respondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"providers": toProviderResponses(providers)})
}

func (api *API) handleCreateServiceArea(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	var req serviceAreaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "malformed request body")
		return
	}
	if req.ZipCode == "" {
		respondBadRequest(c, "zipCode is required")
		return
	}

	provider, err := api.Store.Providers().GetByUserID(ctx, currentUser.ID)
	if err != nil || provider == nil {
		respondProviderNotFound(c)
		return
	}

	area := &store.ServiceArea{
		ID:         newServiceAreaID(),
		ProviderID: provider.ID,

		City:    req.City,
		ZipCode: req.ZipCode,

		TravelFee:   req.TravelFee,
		IsPreferred: req.IsPreferred,
	}

	if err := api.Store.ServiceAreas().Create(ctx, area); err != nil {
		api.Logger.Printf("Error creating service area: %s", err)
		respondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"serviceArea": toServiceAreaResponse(area)})
}

func (api *API) handleDeleteServiceArea(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	provider, err := api.Store.Providers().GetByUserID(ctx, currentUser.ID)
	if err != nil || provider == nil {
		respondProviderNotFound(c)
		return
	}

	area, err := api.Store.ServiceAreas().Get(ctx, c.Param("areaId"))
	if err != nil || area == nil || area.ProviderID != provider.ID {
		// Someone else's area reads the same as a missing one
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"code": "NOT_FOUND", "message": "service area not found"},
		})
		return
	}

	if err := api.Store.ServiceAreas().Delete(ctx, area.ID); err != nil {
		api.Logger.Printf("Error deleting service area %s: %s", area.ID, err)
		respondInternalError(c)
		return
	}

	c.Status(http.StatusNoContent)
}

func toProviderResponse(p *store.Provider) *providerResponse {
	return &providerResponse{
		ID:             p.ID,
		BusinessName:   p.BusinessName,
		Bio:            p.Bio,
		ApprovalStatus: string(p.ApprovalStatus),
		Services:       p.ServiceList(),

		MinimumHours:      p.MinimumHours,
		InstantBooking:    p.InstantBooking,
		ResponseTimeHours: p.ResponseTimeHours,

		CreatedAt: p.CreatedAt,
	}
}

func toProviderResponses(providers []*store.Provider) []*providerResponse {
	responses := make([]*providerResponse, 0, len(providers))
	for _, p := range providers {
		responses = append(responses, toProviderResponse(p))
	}
	return responses
}

func toServiceAreaResponse(a *store.ServiceArea) *serviceAreaResponse {
	return &serviceAreaResponse{
		ID:          a.ID,
		City:        a.City,
		ZipCode:     a.ZipCode,
		TravelFee:   a.TravelFee,
		IsPreferred: a.IsPreferred,
	}
}

func toServiceAreaResponses(areas []*store.ServiceArea) []*serviceAreaResponse {
	responses := make([]*serviceAreaResponse, 0, len(areas))
	for _, a := range areas {
		responses = append(responses, toServiceAreaResponse(a))
	}
	return responses
}

func respondProviderNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": gin.H{"code": "NOT_FOUND", "message": "provider profile not found"},
	})
}

func newProviderID() string {
	return "prov_" + xid.New().String()
}

func newServiceAreaID() string {
	return "area_" + xid.New().String()
}
