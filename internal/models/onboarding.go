package models

import "time"

// StatusPendingApproval is the only status this service ever assigns.
// Approval happens downstream in the n8n workflow, never here.
const StatusPendingApproval = "pending_approval"

// Defaults applied by the normalizer when the client omits optional fields.
const (
	DefaultConsultationDuration = 30
	DefaultEstablishmentType    = "small_clinic"
	DefaultPlanType             = "professional"
)

// RequiredFields must all be present and non-blank for a submission to be
// accepted. Order matters: missing_fields in responses follows this order.
var RequiredFields = []string{
	"real_phone",
	"clinic_name",
	"admin_email",
	"doctor_name",
	"doctor_crm",
	"speciality",
}

// OptionalFields are accepted but never required.
var OptionalFields = []string{
	"consultation_duration",
	"establishment_type",
	"plan_type",
	"selected_features",
	"user_timezone",
	"form_start_time",
	"form_end_time",
	"form_completion_time",
}

var EstablishmentTypes = []string{
	"small_clinic",
	"medium_clinic",
	"large_clinic",
	"hospital",
	"private_practice",
}

var PlanTypes = []string{
	"basic",
	"professional",
	"premium",
	"enterprise",
}

// Specialities offered in the wizard dropdown. Advisory only: the API
// accepts any non-blank value.
var Specialities = []string{
	"cardiologia",
	"clinica-geral",
	"dermatologia",
	"ginecologia",
	"neurologia",
	"oftalmologia",
	"ortopedia",
	"pediatria",
	"psiquiatria",
}

// OnboardingRequest is the untrusted wire body of POST /api/onboarding.
// Every field is optional at the transport level; required-ness is
// enforced in the handler, not by schema rejection.
type OnboardingRequest struct {
	RealPhone            string   `json:"real_phone"`
	ClinicName           string   `json:"clinic_name"`
	AdminEmail           string   `json:"admin_email"`
	DoctorName           string   `json:"doctor_name"`
	DoctorCRM            string   `json:"doctor_crm"`
	Speciality           string   `json:"speciality"`
	ConsultationDuration string   `json:"consultation_duration"`
	EstablishmentType    string   `json:"establishment_type"`
	PlanType             string   `json:"plan_type"`
	SelectedFeatures     []string `json:"selected_features"`
	// Qualifications is the legacy name for selected_features; old clients
	// still send it.
	Qualifications     []string `json:"qualifications"`
	Source             string   `json:"source"`
	UserTimezone       string   `json:"user_timezone"`
	FormStartTime      string   `json:"form_start_time"`
	FormEndTime        string   `json:"form_end_time"`
	FormCompletionTime int      `json:"form_completion_time"`
}

// FieldMap flattens the scalar fields for the validator.
func (r OnboardingRequest) FieldMap() map[string]string {
	return map[string]string{
		"real_phone":            r.RealPhone,
		"clinic_name":           r.ClinicName,
		"admin_email":           r.AdminEmail,
		"doctor_name":           r.DoctorName,
		"doctor_crm":            r.DoctorCRM,
		"speciality":            r.Speciality,
		"consultation_duration": r.ConsultationDuration,
		"establishment_type":    r.EstablishmentType,
		"plan_type":             r.PlanType,
	}
}

// RequestMeta is transport metadata attached by the server, never supplied
// by the user.
type RequestMeta struct {
	UserAgent string `json:"user_agent"`
	IP        string `json:"ip"`
}

// OnboardingData is the canonical, immutable record handed off to the
// workflow receiver. It is built exactly once per submission and never
// stored locally.
type OnboardingData struct {
	RealPhone            string      `json:"real_phone"`
	ClinicName           string      `json:"clinic_name"`
	AdminEmail           string      `json:"admin_email"`
	DoctorName           string      `json:"doctor_name"`
	DoctorCRM            string      `json:"doctor_crm"`
	Speciality           string      `json:"speciality"`
	ConsultationDuration int         `json:"consultation_duration"`
	EstablishmentType    string      `json:"establishment_type"`
	PlanType             string      `json:"plan_type"`
	SelectedFeatures     []string    `json:"selected_features"`
	Qualifications       []string    `json:"qualifications"`
	TenantID             string      `json:"tenant_id"`
	Status               string      `json:"status"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
	UserTimezone         string      `json:"user_timezone,omitempty"`
	FormStartTime        string      `json:"form_start_time,omitempty"`
	FormEndTime          string      `json:"form_end_time,omitempty"`
	FormCompletionTime   int         `json:"form_completion_time,omitempty"`
	Metadata             RequestMeta `json:"metadata"`
}

// WebhookPayload is the envelope posted to the configured n8n webhook.
type WebhookPayload struct {
	Timestamp       time.Time      `json:"timestamp"`
	Source          string         `json:"source"`
	WorkflowVersion string         `json:"workflow_version"`
	Data            OnboardingData `json:"data"`
}

// SubmitResult is the data block of a successful submission response.
type SubmitResult struct {
	TenantID   string `json:"tenant_id"`
	ClinicName string `json:"clinic_name"`
	DoctorName string `json:"doctor_name"`
	Status     string `json:"status"`
}

// SubmitResponse is the response envelope of POST /api/onboarding for
// success, validation failure and internal failure alike.
type SubmitResponse struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Data          *SubmitResult     `json:"data,omitempty"`
	MissingFields []string          `json:"missing_fields,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	ErrorCode     string            `json:"error_code,omitempty"`
	Debug         string            `json:"debug,omitempty"`
}

// APIInfo is the static descriptor returned by GET /api/onboarding.
type APIInfo struct {
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	RequiredFields []string  `json:"required_fields"`
	OptionalFields []string  `json:"optional_fields"`
}
