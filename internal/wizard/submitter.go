package wizard

import (
	"context"
	"fmt"
	"time"

	"vivassit/internal/models"

	"github.com/go-resty/resty/v2"
)

// ClientVersion is sent as X-Client-Version so the receiver can tell
// wizard generations apart.
const ClientVersion = "4.0.0"

// HTTPSubmitter posts submissions to a running onboarding server.
type HTTPSubmitter struct {
	http *resty.Client
}

func NewHTTPSubmitter(baseURL string, timeout time.Duration) *HTTPSubmitter {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Client-Version", ClientVersion)

	return &HTTPSubmitter{http: client}
}

// Submit posts to /api/onboarding and decodes the response envelope for
// both success and error statuses.
func (s *HTTPSubmitter) Submit(ctx context.Context, req models.OnboardingRequest) (*models.SubmitResponse, error) {
	var out models.SubmitResponse
	_, err := s.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post("/api/onboarding")
	if err != nil {
		return nil, fmt.Errorf("failed to call onboarding API: %w", err)
	}
	return &out, nil
}
