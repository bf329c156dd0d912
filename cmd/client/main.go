// Smoke-test client for the onboarding API. Drives the wizard state
// machine through all four steps with sample data and submits against a
// running server:
//
//	go run ./cmd/client -addr http://localhost:8080
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"vivassit/internal/wizard"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the onboarding server")
	flag.Parse()

	w := wizard.New(wizard.NewHTTPSubmitter(*addr, 10*time.Second))

	// Step 1: Dados Profissionais
	w.SetField("doctor_name", "Dr. Maria Silva Santos")
	w.SetField("doctor_crm", "CRM/SP 145678")
	w.SetField("speciality", "cardiologia")
	if !w.Advance() {
		log.Fatalf("step %d rejected: %v", w.StepIndex()+1, w.Errors())
	}

	// Step 2: Dados da Clínica
	w.SetField("clinic_name", "Clínica São Lucas")
	w.SetField("admin_email", "admin@clinicasaolucas.com.br")
	w.SetField("real_phone", "+5511987654321")
	if !w.Advance() {
		log.Fatalf("step %d rejected: %v", w.StepIndex()+1, w.Errors())
	}

	// Step 3: Configurações (defaults plus one extra feature)
	w.SetField("consultation_duration", "45")
	w.SetField("establishment_type", "medium_clinic")
	w.ToggleFeature("telemedicine")
	if !w.Advance() {
		log.Fatalf("step %d rejected: %v", w.StepIndex()+1, w.Errors())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := w.Submit(ctx)
	if err != nil {
		log.Fatalf("submission failed: %v", err)
	}

	if !resp.Success {
		log.Fatalf("API rejected submission: %s (missing: %v)", resp.Message, resp.MissingFields)
	}

	fmt.Println("Submission accepted")
	fmt.Printf("  tenant_id: %s\n", resp.Data.TenantID)
	fmt.Printf("  clinic:    %s\n", resp.Data.ClinicName)
	fmt.Printf("  doctor:    %s\n", resp.Data.DoctorName)
	fmt.Printf("  status:    %s\n", resp.Data.Status)
}
