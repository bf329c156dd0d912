// Package wizard implements the multi-step onboarding form state machine:
// step transitions, per-step validation, feature selection and the final
// submission to the onboarding API.
package wizard

import (
	"context"
	"errors"
	"time"

	"vivassit/internal/models"
	"vivassit/internal/validation"
)

var (
	ErrNotOnFinalStep     = errors.New("submit is only available on the confirmation step")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// Step declares which fields one wizard screen collects. The final step
// collects none; it is a read-only summary.
type Step struct {
	ID          int
	Title       string
	Description string
	Fields      []string
}

func Steps() []Step {
	return []Step{
		{
			ID:          1,
			Title:       "Dados Profissionais",
			Description: "Informações sobre você como profissional de saúde",
			Fields:      []string{"doctor_name", "doctor_crm", "speciality"},
		},
		{
			ID:          2,
			Title:       "Dados da Clínica",
			Description: "Informações do seu estabelecimento médico",
			Fields:      []string{"clinic_name", "admin_email", "real_phone"},
		},
		{
			ID:          3,
			Title:       "Configurações",
			Description: "Defina suas preferências de atendimento",
			Fields:      []string{"consultation_duration", "establishment_type", "plan_type"},
		},
		{
			ID:          4,
			Title:       "Confirmação",
			Description: "Revise e confirme suas informações",
			Fields:      nil,
		},
	}
}

// FeatureOption is one selectable feature on the configuration step.
type FeatureOption struct {
	ID       string
	Label    string
	Selected bool
}

func DefaultFeatures() []FeatureOption {
	return []FeatureOption{
		{ID: "telemedicine", Label: "Telemedicina"},
		{ID: "agenda", Label: "Gestão de Agenda", Selected: true},
		{ID: "billing", Label: "Faturamento"},
		{ID: "patients", Label: "Cadastro de Pacientes", Selected: true},
		{ID: "reports", Label: "Relatórios Médicos"},
		{ID: "integration", Label: "Integração com Planos", Selected: true},
	}
}

// FormData holds every collected field with a concrete default from
// construction, so no access site needs nil checks.
type FormData struct {
	RealPhone            string
	ClinicName           string
	AdminEmail           string
	DoctorName           string
	DoctorCRM            string
	Speciality           string
	ConsultationDuration string
	EstablishmentType    string
	PlanType             string
}

func NewFormData() FormData {
	return FormData{
		ConsultationDuration: "30",
		EstablishmentType:    models.DefaultEstablishmentType,
		PlanType:             models.DefaultPlanType,
	}
}

func (f *FormData) set(name, value string) {
	switch name {
	case "real_phone":
		f.RealPhone = value
	case "clinic_name":
		f.ClinicName = value
	case "admin_email":
		f.AdminEmail = value
	case "doctor_name":
		f.DoctorName = value
	case "doctor_crm":
		f.DoctorCRM = value
	case "speciality":
		f.Speciality = value
	case "consultation_duration":
		f.ConsultationDuration = value
	case "establishment_type":
		f.EstablishmentType = value
	case "plan_type":
		f.PlanType = value
	}
}

func (f *FormData) get(name string) string {
	switch name {
	case "real_phone":
		return f.RealPhone
	case "clinic_name":
		return f.ClinicName
	case "admin_email":
		return f.AdminEmail
	case "doctor_name":
		return f.DoctorName
	case "doctor_crm":
		return f.DoctorCRM
	case "speciality":
		return f.Speciality
	case "consultation_duration":
		return f.ConsultationDuration
	case "establishment_type":
		return f.EstablishmentType
	case "plan_type":
		return f.PlanType
	}
	return ""
}

// Submitter delivers the assembled submission to the onboarding API.
type Submitter interface {
	Submit(ctx context.Context, req models.OnboardingRequest) (*models.SubmitResponse, error)
}

// Wizard tracks the active step, form values, per-field errors and the
// feature selection. Not safe for concurrent use; one wizard per session.
type Wizard struct {
	steps      []Step
	form       FormData
	features   []FeatureOption
	errors     map[string]string
	current    int
	submitting bool
	completed  bool
	startedAt  time.Time
	submitter  Submitter
}

func New(submitter Submitter) *Wizard {
	return &Wizard{
		steps:     Steps(),
		form:      NewFormData(),
		features:  DefaultFeatures(),
		errors:    make(map[string]string),
		startedAt: time.Now().UTC(),
		submitter: submitter,
	}
}

func (w *Wizard) StepIndex() int { return w.current }

func (w *Wizard) CurrentStep() Step { return w.steps[w.current] }

func (w *Wizard) Submitting() bool { return w.submitting }

func (w *Wizard) Completed() bool { return w.completed }

// Errors returns a copy of the error set recorded by the last Advance.
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

func (w *Wizard) Field(name string) string { return w.form.get(name) }

// SetField records a value and clears that field's error, if any. Errors
// are re-evaluated only at Advance/Submit time, not on every keystroke.
func (w *Wizard) SetField(name, value string) {
	w.form.set(name, value)
	delete(w.errors, name)
}

// Advance validates the current step's fields and moves forward when they
// are all valid. On validation failure the step does not change and the
// errors are surfaced.
func (w *Wizard) Advance() bool {
	errs := validation.Validate(w.stepFields(), w.steps[w.current].Fields)
	w.errors = errs
	if len(errs) > 0 {
		return false
	}
	if w.current < len(w.steps)-1 {
		w.current++
	}
	return true
}

// Retreat moves one step back without validating.
func (w *Wizard) Retreat() {
	if w.current > 0 {
		w.current--
	}
}

// ToggleFeature flips the selection flag of exactly one feature option.
func (w *Wizard) ToggleFeature(id string) {
	for i := range w.features {
		if w.features[i].ID == id {
			w.features[i].Selected = !w.features[i].Selected
			return
		}
	}
}

func (w *Wizard) Features() []FeatureOption {
	out := make([]FeatureOption, len(w.features))
	copy(out, w.features)
	return out
}

func (w *Wizard) SelectedFeatures() []string {
	var labels []string
	for _, f := range w.features {
		if f.Selected {
			labels = append(labels, f.Label)
		}
	}
	return labels
}

// Submit assembles the accumulated form state and sends it through the
// submitter. Only reachable from the confirmation step, and gated so a
// second submit cannot start while one is outstanding. On failure the
// wizard stays on the final step so the user may retry or go back.
func (w *Wizard) Submit(ctx context.Context) (*models.SubmitResponse, error) {
	if w.current != len(w.steps)-1 {
		return nil, ErrNotOnFinalStep
	}
	if w.submitting {
		return nil, ErrSubmissionInFlight
	}
	w.submitting = true
	defer func() { w.submitting = false }()

	resp, err := w.submitter.Submit(ctx, w.buildRequest())
	if err != nil {
		return nil, err
	}
	if resp.Success {
		w.completed = true
	}
	return resp, nil
}

func (w *Wizard) buildRequest() models.OnboardingRequest {
	now := time.Now().UTC()
	selected := w.SelectedFeatures()

	return models.OnboardingRequest{
		RealPhone:            w.form.RealPhone,
		ClinicName:           w.form.ClinicName,
		AdminEmail:           w.form.AdminEmail,
		DoctorName:           w.form.DoctorName,
		DoctorCRM:            w.form.DoctorCRM,
		Speciality:           w.form.Speciality,
		ConsultationDuration: w.form.ConsultationDuration,
		EstablishmentType:    w.form.EstablishmentType,
		PlanType:             w.form.PlanType,
		SelectedFeatures:     selected,
		Qualifications:       selected,
		Source:               "vivassit-onboarding-wizard",
		UserTimezone:         time.Local.String(),
		FormStartTime:        w.startedAt.Format(time.RFC3339),
		FormEndTime:          now.Format(time.RFC3339),
		FormCompletionTime:   int(now.Sub(w.startedAt).Seconds()),
	}
}

func (w *Wizard) stepFields() map[string]string {
	fields := make(map[string]string)
	for _, name := range w.steps[w.current].Fields {
		fields[name] = w.form.get(name)
	}
	return fields
}
