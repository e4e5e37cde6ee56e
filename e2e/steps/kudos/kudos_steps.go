// Package kudos defines the step implementations for the kudos lifecycle
// features: registration, allowlist edits, claims and public reads.
package kudos

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"kudos/e2e"
)

// TestContext is the slice of the shared test context these steps need.
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	ResponseStatus() int
	ResponseField(field string) (any, error)
	Community() string
	AddSigner(alias string) error
	SignerAddress(alias string) (string, error)
	SignRegister(alias string, msg e2e.RegisterMessage) (string, error)
	SignClaim(alias string, tokenID uint64) (string, error)
	SignAllowlist(alias string, tokenID uint64) (string, error)
	SaveTokenID() error
	TokenID() uint64
}

// RegisterSteps registers the kudos lifecycle step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &kudosSteps{tc: tc}

	ctx.Step(`^a signer named "([^"]*)"$`, steps.addSigner)
	ctx.Step(`^"([^"]*)" registers a kudos titled "([^"]*)" with contributors "([^"]*)"$`, steps.register)
	ctx.Step(`^"([^"]*)" registers a kudos titled "([^"]*)" with no contributors$`, steps.registerWithoutContributors)
	ctx.Step(`^I save the token id$`, steps.saveTokenID)
	ctx.Step(`^"([^"]*)" claims the token$`, steps.claim)
	ctx.Step(`^"([^"]*)" adds "([^"]*)" to the allowlist$`, steps.addToAllowlist)
	ctx.Step(`^I fetch the token metadata$`, steps.fetchMetadata)
	ctx.Step(`^I fetch the token contributors$`, steps.fetchContributors)
	ctx.Step(`^the response status should be (\d+)$`, steps.assertStatus)
	ctx.Step(`^the headline should be "([^"]*)"$`, steps.assertHeadline)
	ctx.Step(`^the contributors should include "([^"]*)"$`, steps.assertContributorListed)
}

type kudosSteps struct {
	tc TestContext
}

func (s *kudosSteps) addSigner(_ context.Context, alias string) error {
	return s.tc.AddSigner(alias)
}

func (s *kudosSteps) register(ctx context.Context, alias, headline, contributors string) error {
	var aliases []string
	if contributors != "" {
		aliases = strings.Split(contributors, ",")
	}
	return s.doRegister(ctx, alias, headline, aliases)
}

func (s *kudosSteps) registerWithoutContributors(ctx context.Context, alias, headline string) error {
	return s.doRegister(ctx, alias, headline, nil)
}

func (s *kudosSteps) doRegister(_ context.Context, alias, headline string, contributorAliases []string) error {
	creator, err := s.tc.SignerAddress(alias)
	if err != nil {
		return err
	}
	contributors := make([]string, 0, len(contributorAliases))
	for _, contributorAlias := range contributorAliases {
		addr, err := s.tc.SignerAddress(strings.TrimSpace(contributorAlias))
		if err != nil {
			return err
		}
		contributors = append(contributors, addr)
	}

	msg := e2e.RegisterMessage{
		Headline:           headline,
		Description:        "end to end check",
		StartDateTimestamp: 1700000000,
		EndDateTimestamp:   1700086400,
		Links:              []string{"https://example.org/results"},
		CommunityUniqID:    s.tc.Community(),
	}
	signature, err := s.tc.SignRegister(alias, msg)
	if err != nil {
		return err
	}

	return s.tc.POST("/admin/kudos", map[string]any{
		"creator":              creator,
		"headline":             msg.Headline,
		"description":          msg.Description,
		"start_date_timestamp": msg.StartDateTimestamp,
		"end_date_timestamp":   msg.EndDateTimestamp,
		"links":                msg.Links,
		"community_uniq_id":    msg.CommunityUniqID,
		"contributors":         contributors,
		"mint_for_creator":     false,
		"signature":            signature,
	})
}

func (s *kudosSteps) saveTokenID(_ context.Context) error {
	return s.tc.SaveTokenID()
}

func (s *kudosSteps) claim(_ context.Context, alias string) error {
	claimee, err := s.tc.SignerAddress(alias)
	if err != nil {
		return err
	}
	signature, err := s.tc.SignClaim(alias, s.tc.TokenID())
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/admin/kudos/%d/claims", s.tc.TokenID())
	return s.tc.POST(path, map[string]string{
		"claimee":   claimee,
		"signature": signature,
	})
}

func (s *kudosSteps) addToAllowlist(_ context.Context, alias, addeeAlias string) error {
	addee, err := s.tc.SignerAddress(addeeAlias)
	if err != nil {
		return err
	}
	signature, err := s.tc.SignAllowlist(alias, s.tc.TokenID())
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/admin/kudos/%d/allowlist", s.tc.TokenID())
	return s.tc.POST(path, map[string]any{
		"addresses": []string{addee},
		"signature": signature,
	})
}

func (s *kudosSteps) fetchMetadata(_ context.Context) error {
	return s.tc.GET(fmt.Sprintf("/kudos/%d", s.tc.TokenID()))
}

func (s *kudosSteps) fetchContributors(_ context.Context) error {
	return s.tc.GET(fmt.Sprintf("/kudos/%d/contributors", s.tc.TokenID()))
}

func (s *kudosSteps) assertStatus(_ context.Context, want int) error {
	if got := s.tc.ResponseStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d", want, got)
	}
	return nil
}

func (s *kudosSteps) assertHeadline(_ context.Context, want string) error {
	got, err := s.tc.ResponseField("headline")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected headline %q, got %v", want, got)
	}
	return nil
}

func (s *kudosSteps) assertContributorListed(_ context.Context, alias string) error {
	want, err := s.tc.SignerAddress(alias)
	if err != nil {
		return err
	}
	raw, err := s.tc.ResponseField("contributors")
	if err != nil {
		return err
	}
	list, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("contributors is not a list: %v", raw)
	}
	for _, entry := range list {
		if entry == want {
			return nil
		}
	}
	return fmt.Errorf("%s (%s) not in contributors %v", alias, want, list)
}
