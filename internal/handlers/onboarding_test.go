package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"vivassit/internal/config"
	"vivassit/internal/models"
	"vivassit/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validBody = `{
	"real_phone": "+5511987654321",
	"clinic_name": "Clínica São Lucas",
	"admin_email": "admin@clinicasaolucas.com.br",
	"doctor_name": "Dr. Maria Silva Santos",
	"doctor_crm": "CRM/SP 145678",
	"speciality": "cardiologia",
	"consultation_duration": "45",
	"establishment_type": "medium_clinic",
	"qualifications": ["Telemedicina", "Agenda Online"]
}`

func newTestHandler(webhookURL string, strict bool) *OnboardingHandler {
	cfg := &config.Config{
		WebhookURL:            webhookURL,
		WebhookTimeoutSeconds: 2,
		StrictDelivery:        strict,
		SourceTag:             "vivassit-onboarding",
		WorkflowVersion:       "4.0",
	}
	log := zap.NewNop()
	return NewOnboardingHandler(cfg, services.NewNormalizer(cfg), services.NewWebhookClient(cfg, log), log)
}

func postOnboarding(t *testing.T, h *OnboardingHandler, body string, header map[string]string) (*httptest.ResponseRecorder, models.SubmitResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitOnboarding(c))

	var resp models.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestSubmitMissingFields(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL, false)

	rec, resp := postOnboarding(t, h, `{"clinic_name": "Clínica São Lucas"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"real_phone", "admin_email", "doctor_name", "doctor_crm", "speciality"}, resp.MissingFields)
	assert.Nil(t, resp.Data)
	// Rejected submissions never reach the webhook.
	assert.Equal(t, int32(0), calls.Load())
}

func TestSubmitInvalidEmailIsNotMissing(t *testing.T) {
	h := newTestHandler("", false)

	body := strings.Replace(validBody, "admin@clinicasaolucas.com.br", "not-an-email", 1)
	rec, resp := postOnboarding(t, h, body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, resp.MissingFields)
	assert.Contains(t, resp.Errors, "admin_email")
	assert.NotContains(t, resp.Errors, "real_phone")
}

func TestSubmitRoundTrip(t *testing.T) {
	var received models.WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL, false)

	rec, resp := postOnboarding(t, h, validBody, map[string]string{
		"User-Agent":      "Vivassit-Test-Client",
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Clínica São Lucas", resp.Data.ClinicName)
	assert.Equal(t, "Dr. Maria Silva Santos", resp.Data.DoctorName)
	assert.Equal(t, "pending_approval", resp.Data.Status)
	assert.Regexp(t, `^clinica-sao-lucas-[0-9a-f]{8}$`, resp.Data.TenantID)

	// The forwarded record matches what the caller was told.
	assert.Equal(t, resp.Data.TenantID, received.Data.TenantID)
	assert.Equal(t, 45, received.Data.ConsultationDuration)
	assert.Equal(t, "medium_clinic", received.Data.EstablishmentType)
	assert.Equal(t, "professional", received.Data.PlanType)
	assert.Equal(t, received.Data.SelectedFeatures, received.Data.Qualifications)
	assert.Equal(t, "Vivassit-Test-Client", received.Data.Metadata.UserAgent)
	assert.Equal(t, "203.0.113.9", received.Data.Metadata.IP)
}

func TestSubmitSucceedsWhenDeliverySkipped(t *testing.T) {
	h := newTestHandler("https://your-n8n-instance.com/webhook/onboarding", false)

	rec, resp := postOnboarding(t, h, validBody, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.NotEmpty(t, resp.Data.TenantID)
}

func TestSubmitLenientDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL, false)

	rec, resp := postOnboarding(t, h, validBody, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestSubmitStrictDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := newTestHandler(srv.URL, true)

	rec, resp := postOnboarding(t, h, validBody, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "WEBHOOK_DELIVERY_FAILED", resp.ErrorCode)
	assert.Nil(t, resp.Data)
}

func TestSubmitMalformedBody(t *testing.T) {
	h := newTestHandler("", false)

	rec, resp := postOnboarding(t, h, `{"clinic_name": `, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "INTERNAL_ERROR", resp.ErrorCode)
	assert.Equal(t, "Erro interno do servidor", resp.Message)
	assert.Empty(t, resp.Debug)
}

func TestInfo(t *testing.T) {
	h := newTestHandler("", false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/onboarding", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Info(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var info models.APIInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "API de onboarding médico ativa", info.Message)
	assert.Equal(t, APIVersion, info.Version)
	assert.Equal(t, models.RequiredFields, info.RequiredFields)
	assert.Equal(t, models.OptionalFields, info.OptionalFields)
	assert.False(t, info.Timestamp.IsZero())
}
