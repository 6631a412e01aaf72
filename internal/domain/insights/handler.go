package insights

import (
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
	api.GET("/insights/:userID", h.ListInsights)
	api.GET("/insights/:userID/predictions", h.ListPredictions)
}

func (h *Handler) ListInsights(c echo.Context) error {
	result, err := h.svc.ListInsights(c.Request().Context(), c.Param("userID"), c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListPredictions(c echo.Context) error {
	result, err := h.svc.ListPredictions(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
