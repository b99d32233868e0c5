package e2e

import (
	"context"

	"github.com/cucumber/godog"

	"containerbase/e2e/steps/common"
	"containerbase/e2e/steps/consent"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.Reset()
		return c, nil
	})

	// Generic requests and assertions
	common.RegisterSteps(ctx, tc)

	// Consent gate and redaction steps
	consent.RegisterSteps(ctx, tc)
}
