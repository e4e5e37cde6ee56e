package e2e_test

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"

	"kudos/e2e"
	kudossteps "kudos/e2e/steps/kudos"
)

// TestFeatures runs the gherkin features against a live gateway. Set
// KUDOS_E2E_URL (plus the owner, JWT key and signing domain variables) to
// point at the deployment under test; without it the suite is skipped.
func TestFeatures(t *testing.T) {
	if os.Getenv("KUDOS_E2E_URL") == "" {
		t.Skip("KUDOS_E2E_URL not set, skipping e2e features")
	}

	tc, err := e2e.NewTestContext()
	if err != nil {
		t.Fatalf("e2e context: %v", err)
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return c, nil
			})
			kudossteps.RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("e2e feature suite failed")
	}
}
