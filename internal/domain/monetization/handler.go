package monetization

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/monetization/subscription/:userID", h.GetSubscription)
	api.PUT("/monetization/subscription/:userID", h.UpdateSubscription)
	api.GET("/monetization/plans", h.ListPlans)
	api.GET("/monetization/features", h.ListPremiumFeatures)
	api.GET("/monetization/partners", h.ListPartnerServices)
	api.GET("/monetization/doctors", h.ListDoctors)
	api.POST("/monetization/consultations", h.BookConsultation)
	api.GET("/monetization/consultations/:userID", h.ListConsultations)
	api.GET("/monetization/offers", h.ListOffers)
}

func (h *Handler) GetSubscription(c echo.Context) error {
	sub, err := h.svc.GetSubscription(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) UpdateSubscription(c echo.Context) error {
	var changes SubscriptionChanges
	if err := c.Bind(&changes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sub, err := h.svc.UpdateSubscription(c.Request().Context(), c.Param("userID"), changes)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return monetizationError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) ListPlans(c echo.Context) error {
	plans, err := h.svc.ListPlans(c.Request().Context())
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, plans)
}

func (h *Handler) ListPremiumFeatures(c echo.Context) error {
	features, err := h.svc.ListPremiumFeatures(c.Request().Context())
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, features)
}

func (h *Handler) ListPartnerServices(c echo.Context) error {
	partners, err := h.svc.ListPartnerServices(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, partners)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.ListDoctors(c.Request().Context(), c.QueryParam("specialization"))
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) BookConsultation(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	consultation, err := h.svc.BookConsultation(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, consultation)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	consultations, err := h.svc.ListConsultations(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, consultations)
}

func (h *Handler) ListOffers(c echo.Context) error {
	offers, err := h.svc.ListOffers(c.Request().Context())
	if err != nil {
		return monetizationError(err)
	}
	return c.JSON(http.StatusOK, offers)
}

func monetizationError(err error) *echo.HTTPError {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
