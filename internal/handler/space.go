package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/kamuxx/reservas-api/internal/model"
	"github.com/kamuxx/reservas-api/internal/repository"
	"github.com/kamuxx/reservas-api/internal/usecase"
)

// SpaceHandler exposes the space catalog over HTTP: admin registration and
// updates, public listing, availability search and the occupied-slots view.
type SpaceHandler struct {
	UC *usecase.SpaceUseCases
}

// NewSpaceHandler constructs a SpaceHandler. The use case must be non-nil.
func NewSpaceHandler(uc *usecase.SpaceUseCases) *SpaceHandler {
	if uc == nil {
		panic("nil use case passed to NewSpaceHandler")
	}
	return &SpaceHandler{UC: uc}
}

type createSpaceReq struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Capacity      uint32  `json:"capacity"`
	SpaceTypeID   string  `json:"space_type_id"`
	PricingRuleID *string `json:"pricing_rule_id"`
	IsActive      *bool   `json:"is_active"` // defaults to true
}

type updateSpaceReq struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Capacity      *uint32 `json:"capacity"`
	SpaceTypeID   *string `json:"space_type_id"`
	StatusID      *string `json:"status_id"`
	PricingRuleID *string `json:"pricing_rule_id"`
	IsActive      *bool   `json:"is_active"`
}

// Create handles POST /v1/spaces (admin only).
func (h *SpaceHandler) Create(c echo.Context) error {
	adminUUID, err := getUserUUID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSpaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SpaceTypeID = strings.TrimSpace(req.SpaceTypeID)
	if req.Name == "" || req.SpaceTypeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and space_type_id are required"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	sp, err := h.UC.Register(c.Request().Context(), usecase.RegisterSpaceInput{
		Name:          req.Name,
		Description:   req.Description,
		Capacity:      req.Capacity,
		SpaceTypeID:   req.SpaceTypeID,
		PricingRuleID: req.PricingRuleID,
		IsActive:      isActive,
	}, adminUUID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create space"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": sp})
}

// Update handles PATCH /v1/spaces/:id (admin only). Only the provided fields
// are changed.
func (h *SpaceHandler) Update(c echo.Context) error {
	adminUUID, err := getUserUUID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	var req updateSpaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Capacity != nil && *req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}

	sp, err := h.UC.Update(c.Request().Context(), id, usecase.UpdateSpaceInput{
		Name:          req.Name,
		Description:   req.Description,
		Capacity:      req.Capacity,
		SpaceTypeID:   req.SpaceTypeID,
		StatusID:      req.StatusID,
		PricingRuleID: req.PricingRuleID,
		IsActive:      req.IsActive,
	}, adminUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update space"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sp})
}

// List handles GET /v1/spaces. Non-admin callers only see active spaces.
func (h *SpaceHandler) List(c echo.Context) error {
	f := repository.ListFilter{
		Page:    atoiOr(c.QueryParam("page"), 1),
		PerPage: atoiOr(c.QueryParam("per_page"), 15),
	}
	if getRole(c) != model.RoleAdmin {
		active := true
		f.IsActive = &active
	} else if v := strings.TrimSpace(c.QueryParam("is_active")); v != "" {
		active := v == "true" || v == "1"
		f.IsActive = &active
	}
	if v := strings.TrimSpace(c.QueryParam("space_type_id")); v != "" {
		f.SpaceTypeID = &v
	}
	if v := strings.TrimSpace(c.QueryParam("capacity")); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be a positive integer"})
		}
		cap32 := uint32(n)
		f.MinCapacity = &cap32
	}

	items, total, err := h.UC.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load spaces"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":    items,
		"total":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
	})
}

// Get handles GET /v1/spaces/:id. Inactive spaces look absent to non-admins.
func (h *SpaceHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	sp, err := h.UC.Find(c.Request().Context(), id, getRole(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch space"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sp})
}

// ListAvailable handles GET /v1/spaces/available. The date query parameter is
// required; type, capacity, features (comma-separated feature UUIDs, AND
// semantics) and price bounds are optional.
func (h *SpaceHandler) ListAvailable(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	f := repository.AvailabilityFilter{Date: date}
	if v := strings.TrimSpace(c.QueryParam("space_type_id")); v != "" {
		f.SpaceTypeID = &v
	}
	if v := strings.TrimSpace(c.QueryParam("capacity")); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be a positive integer"})
		}
		cap32 := uint32(n)
		f.MinCapacity = &cap32
	}
	if v := strings.TrimSpace(c.QueryParam("features")); v != "" {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.FeatureIDs = append(f.FeatureIDs, part)
			}
		}
	}
	if v := strings.TrimSpace(c.QueryParam("price_min")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_min must be a number"})
		}
		f.PriceMin = &d
	}
	if v := strings.TrimSpace(c.QueryParam("price_max")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_max must be a number"})
		}
		f.PriceMax = &d
	}

	items, err := h.UC.ListAvailable(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search spaces"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// OccupiedSlots handles GET /v1/spaces/:id/occupied. The from/to query
// parameters default to a 30-day window starting today.
func (h *SpaceHandler) OccupiedSlots(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	now := time.Now().UTC()
	from := strings.TrimSpace(c.QueryParam("from"))
	if from == "" {
		from = now.Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", from); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	to := strings.TrimSpace(c.QueryParam("to"))
	if to == "" {
		to = now.AddDate(0, 0, 30).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", to); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}

	slots, err := h.UC.OccupiedSlots(c.Request().Context(), id, from, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load occupied slots"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": slots})
}

// atoiOr parses a positive integer query value, falling back to def.
func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
