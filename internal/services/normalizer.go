package services

import (
	"strconv"
	"strings"
	"time"

	"vivassit/internal/config"
	"vivassit/internal/models"
)

// Normalizer reshapes an untrusted submission into the canonical payload
// expected by the workflow receiver. It only fills defaults and coerces
// types; rejection is the validator's job and runs before this.
type Normalizer struct {
	cfg *config.Config
}

func NewNormalizer(cfg *config.Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize builds the outbound webhook payload, assigning a fresh tenant
// id. The record it produces is never mutated afterwards.
func (n *Normalizer) Normalize(req models.OnboardingRequest, meta models.RequestMeta) models.WebhookPayload {
	now := time.Now().UTC()

	duration := models.DefaultConsultationDuration
	if v := strings.TrimSpace(req.ConsultationDuration); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			duration = parsed
		}
	}

	establishment := req.EstablishmentType
	if establishment == "" {
		establishment = models.DefaultEstablishmentType
	}
	plan := req.PlanType
	if plan == "" {
		plan = models.DefaultPlanType
	}

	// The n8n workflow reads qualifications, newer consumers read
	// selected_features. Emit the same list under both keys.
	features := req.SelectedFeatures
	if len(features) == 0 {
		features = req.Qualifications
	}
	if features == nil {
		features = []string{}
	}

	if meta.IP == "" {
		meta.IP = "unknown"
	}

	data := models.OnboardingData{
		RealPhone:            req.RealPhone,
		ClinicName:           req.ClinicName,
		AdminEmail:           req.AdminEmail,
		DoctorName:           req.DoctorName,
		DoctorCRM:            req.DoctorCRM,
		Speciality:           req.Speciality,
		ConsultationDuration: duration,
		EstablishmentType:    establishment,
		PlanType:             plan,
		SelectedFeatures:     features,
		Qualifications:       features,
		TenantID:             NewTenantID(req.ClinicName),
		Status:               models.StatusPendingApproval,
		CreatedAt:            now,
		UpdatedAt:            now,
		UserTimezone:         req.UserTimezone,
		FormStartTime:        req.FormStartTime,
		FormEndTime:          req.FormEndTime,
		FormCompletionTime:   req.FormCompletionTime,
		Metadata:             meta,
	}

	return models.WebhookPayload{
		Timestamp:       now,
		Source:          n.cfg.SourceTag,
		WorkflowVersion: n.cfg.WorkflowVersion,
		Data:            data,
	}
}
