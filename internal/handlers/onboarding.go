package handlers

import (
	"net/http"
	"strings"
	"time"

	"vivassit/internal/config"
	"vivassit/internal/models"
	"vivassit/internal/services"
	"vivassit/internal/validation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIVersion is reported by GET /api/onboarding and must stay aligned
// with the n8n workflow version.
const APIVersion = "4.0.0"

type OnboardingHandler struct {
	cfg        *config.Config
	normalizer *services.Normalizer
	webhook    *services.WebhookClient
	logger     *zap.Logger
}

func NewOnboardingHandler(cfg *config.Config, normalizer *services.Normalizer, webhook *services.WebhookClient, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{cfg: cfg, normalizer: normalizer, webhook: webhook, logger: logger}
}

func RegisterRoutes(g *echo.Group, h *OnboardingHandler) {
	g.POST("/onboarding", h.SubmitOnboarding)
	g.GET("/onboarding", h.Info)
}

// SubmitOnboarding validates the submission, assigns a tenant id and
// forwards the record to the workflow receiver. Unless StrictDelivery is
// on, the caller gets a success response regardless of webhook outcome.
func (h *OnboardingHandler) SubmitOnboarding(c echo.Context) error {
	var req models.OnboardingRequest
	if err := c.Bind(&req); err != nil {
		return h.internalError(c, err)
	}

	fields := req.FieldMap()
	if errs := validation.Validate(fields, models.RequiredFields); len(errs) > 0 {
		missing := validation.Missing(fields, models.RequiredFields)
		h.logger.Info("Onboarding submission rejected",
			zap.Strings("missing_fields", missing),
			zap.Int("error_count", len(errs)),
		)
		message := "Dados inválidos"
		if len(missing) > 0 {
			message = "Campos obrigatórios não preenchidos"
		}
		return c.JSON(http.StatusBadRequest, models.SubmitResponse{
			Success:       false,
			Message:       message,
			MissingFields: missing,
			Errors:        errs,
		})
	}

	payload := h.normalizer.Normalize(req, requestMeta(c))

	if err := h.webhook.Deliver(c.Request().Context(), payload); err != nil {
		if h.cfg.StrictDelivery {
			resp := models.SubmitResponse{
				Success:   false,
				Message:   "Erro ao encaminhar os dados",
				ErrorCode: "WEBHOOK_DELIVERY_FAILED",
			}
			if h.cfg.Debug {
				resp.Debug = err.Error()
			}
			return c.JSON(http.StatusBadGateway, resp)
		}
		h.logger.Warn("Webhook delivery failed, responding success anyway",
			zap.Error(err),
			zap.String("tenant_id", payload.Data.TenantID),
		)
	}

	h.logger.Info("Onboarding submission accepted",
		zap.String("tenant_id", payload.Data.TenantID),
		zap.String("clinic_name", payload.Data.ClinicName),
	)

	return c.JSON(http.StatusOK, models.SubmitResponse{
		Success: true,
		Message: "Dados enviados com sucesso",
		Data: &models.SubmitResult{
			TenantID:   payload.Data.TenantID,
			ClinicName: payload.Data.ClinicName,
			DoctorName: payload.Data.DoctorName,
			Status:     payload.Data.Status,
		},
	})
}

// Info returns a static descriptor of the endpoint. No input, no side
// effects.
func (h *OnboardingHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, models.APIInfo{
		Message:        "API de onboarding médico ativa",
		Timestamp:      time.Now().UTC(),
		Version:        APIVersion,
		RequiredFields: models.RequiredFields,
		OptionalFields: models.OptionalFields,
	})
}

func (h *OnboardingHandler) internalError(c echo.Context, err error) error {
	h.logger.Error("Onboarding request failed", zap.Error(err))
	resp := models.SubmitResponse{
		Success:   false,
		Message:   "Erro interno do servidor",
		ErrorCode: "INTERNAL_ERROR",
	}
	if h.cfg.Debug {
		resp.Debug = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

// requestMeta extracts caller metadata: forwarded-for wins over real-ip,
// "unknown" when neither header is present.
func requestMeta(c echo.Context) models.RequestMeta {
	header := c.Request().Header

	ip := header.Get(echo.HeaderXForwardedFor)
	if i := strings.Index(ip, ","); i >= 0 {
		ip = strings.TrimSpace(ip[:i])
	}
	if ip == "" {
		ip = header.Get(echo.HeaderXRealIP)
	}
	if ip == "" {
		ip = "unknown"
	}

	return models.RequestMeta{
		UserAgent: header.Get("User-Agent"),
		IP:        ip,
	}
}
