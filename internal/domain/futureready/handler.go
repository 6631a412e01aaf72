package futureready

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
	api.GET("/futureready/storage/:userID", h.GetCloudStorage)
	api.GET("/futureready/backup/settings/:userID", h.GetBackupSettings)
	api.PUT("/futureready/backup/settings/:userID", h.UpdateBackupSettings)
	api.GET("/futureready/backup/history/:userID", h.ListBackupHistory)
	api.POST("/futureready/backup/trigger/:userID", h.TriggerBackup)
}

func (h *Handler) GetCloudStorage(c echo.Context) error {
	storage, err := h.svc.GetCloudStorage(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return futureReadyError(err)
	}
	return c.JSON(http.StatusOK, storage)
}

func (h *Handler) GetBackupSettings(c echo.Context) error {
	settings, err := h.svc.GetBackupSettings(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return futureReadyError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateBackupSettings(c echo.Context) error {
	var changes BackupSettingsChanges
	if err := c.Bind(&changes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	settings, err := h.svc.UpdateBackupSettings(c.Request().Context(), c.Param("userID"), changes)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return futureReadyError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) ListBackupHistory(c echo.Context) error {
	entries, err := h.svc.ListBackupHistory(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return futureReadyError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) TriggerBackup(c echo.Context) error {
	entry, err := h.svc.TriggerBackup(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return futureReadyError(err)
	}
	return c.JSON(http.StatusAccepted, entry)
}

func futureReadyError(err error) *echo.HTTPError {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
