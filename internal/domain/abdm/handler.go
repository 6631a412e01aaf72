package abdm

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
	api.POST("/abdm/aadhaar/otp", h.GenerateAadhaarOTP)
	api.POST("/abdm/aadhaar/verify", h.VerifyAadhaarOTP)
	api.POST("/abdm/mobile/otp", h.GenerateMobileOTP)
	api.POST("/abdm/mobile/verify", h.VerifyMobileOTP)
	api.POST("/abdm/abha", h.CreateABHA)
	api.POST("/abdm/login", h.LoginABHA)
	api.POST("/abdm/session", h.SessionToken)
}

type otpRequest struct {
	Aadhaar string `json:"aadhaar,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
}

type verifyRequest struct {
	TxnID string `json:"txn_id"`
	OTP   string `json:"otp"`
}

func (h *Handler) GenerateAadhaarOTP(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.GenerateAadhaarOTP(c.Request().Context(), req.Aadhaar)
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) VerifyAadhaarOTP(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.VerifyAadhaarOTP(c.Request().Context(), req.TxnID, req.OTP)
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GenerateMobileOTP(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.GenerateMobileOTP(c.Request().Context(), req.Mobile)
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) VerifyMobileOTP(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.VerifyMobileOTP(c.Request().Context(), req.TxnID, req.OTP)
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateABHA(c echo.Context) error {
	var req struct {
		TxnID string `json:"txn_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.CreateABHA(c.Request().Context(), req.TxnID)
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) LoginABHA(c echo.Context) error {
	var req struct {
		ABHANumber string `json:"abha_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.LoginABHA(c.Request().Context(), req.ABHANumber)
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SessionToken(c echo.Context) error {
	token, err := h.svc.SessionToken(c.Request().Context())
	if err != nil {
		return abdmError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func abdmError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrInvalidOTP):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrTxnNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
