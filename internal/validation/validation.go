package validation

import (
	"regexp"
	"strings"
)

// User-facing messages, matched to what the wizard UI displays.
const (
	MsgRequired     = "Este campo é obrigatório"
	MsgInvalidEmail = "Email inválido"
	MsgInvalidPhone = "Telefone inválido"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Optional leading +, then at least 10 digits/spaces/hyphens/parentheses.
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// Validate checks the given field values against the required list and
// returns field name -> error message for every violation. Blank means
// missing. admin_email and real_phone additionally get a format check
// whenever they are present with a non-blank value. An empty map means
// the input is fully valid.
func Validate(fields map[string]string, required []string) map[string]string {
	errs := make(map[string]string)

	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			errs[name] = MsgRequired
		}
	}

	if v, ok := fields["admin_email"]; ok && strings.TrimSpace(v) != "" && errs["admin_email"] == "" {
		if !emailPattern.MatchString(v) {
			errs["admin_email"] = MsgInvalidEmail
		}
	}
	if v, ok := fields["real_phone"]; ok && strings.TrimSpace(v) != "" && errs["real_phone"] == "" {
		if !phonePattern.MatchString(v) {
			errs["real_phone"] = MsgInvalidPhone
		}
	}

	return errs
}

// Missing returns the required fields that are absent or blank, in the
// order they appear in required.
func Missing(fields map[string]string, required []string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
