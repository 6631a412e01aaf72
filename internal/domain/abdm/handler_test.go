package abdm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_OTPFlow(t *testing.T) {
	h, e := newTestHandler()

	c, rec := postJSON(e, `{"aadhaar":"123456789012"}`)
	if err := h.GenerateAadhaarOTP(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var otp OTPResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &otp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	c, rec = postJSON(e, `{"txn_id":"`+otp.TxnID+`","otp":"123456"}`)
	if err := h.VerifyAadhaarOTP(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var verify VerifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &verify); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !verify.Verified {
		t.Error("expected verified")
	}

	c, rec = postJSON(e, `{"txn_id":"`+otp.TxnID+`"}`)
	if err := h.CreateABHA(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_VerifyWrongOTP(t *testing.T) {
	h, e := newTestHandler()

	c, rec := postJSON(e, `{"aadhaar":"123456789012"}`)
	if err := h.GenerateAadhaarOTP(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var otp OTPResponse
	json.Unmarshal(rec.Body.Bytes(), &otp)

	c, _ = postJSON(e, `{"txn_id":"`+otp.TxnID+`","otp":"999999"}`)
	err := h.VerifyAadhaarOTP(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandler_BadAadhaar(t *testing.T) {
	h, e := newTestHandler()
	c, _ := postJSON(e, `{"aadhaar":"42"}`)
	err := h.GenerateAadhaarOTP(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
