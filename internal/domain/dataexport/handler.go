package dataexport

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/exports", h.RequestExport)
	api.GET("/exports", h.ListExports)
	api.GET("/exports/:id", h.GetExportStatus)
	api.GET("/exports/:id/download", h.DownloadExport)
	api.POST("/exports/:id/share", h.ShareExport)
	api.DELETE("/exports/:id", h.DeleteExport)
	api.GET("/shares/:token", h.RedeemShareLink)
}

func (h *Handler) RequestExport(c echo.Context) error {
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	job, err := h.svc.RequestExport(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusAccepted, job)
}

func (h *Handler) GetExportStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	job, err := h.svc.GetExportStatus(c.Request().Context(), id)
	if err != nil {
		return exportError(err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *Handler) DownloadExport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	info, err := h.svc.DownloadExport(c.Request().Context(), id)
	if err != nil {
		return exportError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *Handler) ShareExport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req ShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link, err := h.svc.ShareExport(c.Request().Context(), id, req)
	if err != nil {
		return exportError(err)
	}
	return c.JSON(http.StatusCreated, shareResponse(link))
}

func (h *Handler) DeleteExport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteExport(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListExports(c echo.Context) error {
	pg := pagination.FromContext(c)
	jobs, total, err := h.svc.ListExports(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(jobs, total, pg.Limit, pg.Offset))
}

func (h *Handler) RedeemShareLink(c echo.Context) error {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid token")
	}
	info, err := h.svc.RedeemShareLink(c.Request().Context(), token, c.QueryParam("password"))
	if err != nil {
		return exportError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// shareResponse includes the one-time generated password alongside the link.
func shareResponse(link *ShareLink) map[string]interface{} {
	resp := map[string]interface{}{"share_link": link}
	if link.Password != nil {
		resp["password"] = *link.Password
	}
	return resp
}

func exportError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "export not found")
	case errors.Is(err, ErrExpired), errors.Is(err, ErrShareExhausted):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, ErrNotReady):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrSharePassword):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
