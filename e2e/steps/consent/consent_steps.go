package consent

import (
	"context"

	"github.com/cucumber/godog"
)

const (
	headerConsentStatus = "X-PDPA-Consent-Status"
	headerConsentAt     = "X-PDPA-Consent-At"
	headerUserID        = "X-User-Id"
	headerUserEmail     = "X-User-Email"
	headerGPSLat        = "X-GPS-Lat"
	headerGPSLon        = "X-GPS-Lon"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	SetHeader(key, value string)
}

// RegisterSteps registers consent-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &consentSteps{tc: tc}

	ctx.Step(`^user "([^"]*)" has active consent$`, steps.activeConsent)
	ctx.Step(`^user "([^"]*)" has consent status "([^"]*)"$`, steps.consentStatus)
	ctx.Step(`^the consent was given at "([^"]*)"$`, steps.consentedAt)
	ctx.Step(`^the request carries email "([^"]*)"$`, steps.email)
	ctx.Step(`^the request carries GPS "([^"]*)", "([^"]*)"$`, steps.gps)
}

type consentSteps struct {
	tc TestContext
}

func (s *consentSteps) activeConsent(ctx context.Context, userID string) error {
	return s.consentStatus(ctx, userID, "active")
}

func (s *consentSteps) consentStatus(ctx context.Context, userID, status string) error {
	s.tc.SetHeader(headerConsentStatus, status)
	s.tc.SetHeader(headerUserID, userID)
	return nil
}

func (s *consentSteps) consentedAt(ctx context.Context, ts string) error {
	s.tc.SetHeader(headerConsentAt, ts)
	return nil
}

func (s *consentSteps) email(ctx context.Context, email string) error {
	s.tc.SetHeader(headerUserEmail, email)
	return nil
}

func (s *consentSteps) gps(ctx context.Context, lat, lon string) error {
	s.tc.SetHeader(headerGPSLat, lat)
	s.tc.SetHeader(headerGPSLon, lon)
	return nil
}
