package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	StatusCode() int
	ResponseHeader(key string) string
	ResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
	ResponseContains(field string) bool
}

// RegisterSteps registers request and response assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response body should be "([^"]*)"$`, steps.bodyShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.fieldShouldBeAbsent)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, steps.headerShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be absent$`, steps.headerShouldBeAbsent)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.StatusCode(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.ResponseBody())
	}
	return nil
}

func (s *commonSteps) bodyShouldBe(ctx context.Context, want string) error {
	field, err := s.tc.GetResponseField("status")
	if err == nil {
		if field != want {
			return fmt.Errorf("expected status body %q, got %v", want, field)
		}
		return nil
	}
	if got := string(s.tc.ResponseBody()); got != want {
		return fmt.Errorf("expected body %q, got %q", want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(ctx context.Context, field, want string) error {
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s=%q, got %v", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeAbsent(ctx context.Context, field string) error {
	if s.tc.ResponseContains(field) {
		return fmt.Errorf("expected %s to be absent", field)
	}
	return nil
}

func (s *commonSteps) headerShouldBe(ctx context.Context, key, want string) error {
	if got := s.tc.ResponseHeader(key); got != want {
		return fmt.Errorf("expected header %s=%q, got %q", key, want, got)
	}
	return nil
}

func (s *commonSteps) headerShouldBeAbsent(ctx context.Context, key string) error {
	if got := s.tc.ResponseHeader(key); got != "" {
		return fmt.Errorf("expected header %s to be absent, got %q", key, got)
	}
	return nil
}
