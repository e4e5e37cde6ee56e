package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext carries shared state across step definitions: the gateway
// endpoint, the caller token, generated signer personas and the last HTTP
// exchange.
type TestContext struct {
	baseURL     string
	client      *http.Client
	callerToken string
	domain      Domain
	community   string

	signers map[string]*Signer
	tokenID uint64

	lastStatus int
	lastBody   map[string]any
}

// NewTestContext reads the target gateway from the environment. The gateway
// under test must be running with the same owner, JWT key, chain id and
// contract address, and with the named community provisioned in its registry.
func NewTestContext() (*TestContext, error) {
	baseURL := os.Getenv("KUDOS_E2E_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("KUDOS_E2E_URL not set")
	}
	jwtKey := os.Getenv("KUDOS_E2E_ADMIN_JWT_KEY")
	owner := os.Getenv("KUDOS_E2E_OWNER_ADDRESS")
	if jwtKey == "" || owner == "" {
		return nil, fmt.Errorf("KUDOS_E2E_ADMIN_JWT_KEY and KUDOS_E2E_OWNER_ADDRESS are required")
	}

	chainID := uint64(1)
	if raw := os.Getenv("KUDOS_E2E_CHAIN_ID"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad KUDOS_E2E_CHAIN_ID: %w", err)
		}
		chainID = parsed
	}
	contract := os.Getenv("KUDOS_E2E_CONTRACT_ADDRESS")
	if contract == "" {
		contract = "0x0000000000000000000000000000000000000000"
	}
	community := os.Getenv("KUDOS_E2E_COMMUNITY")
	if community == "" {
		community = "community-1"
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   owner,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return nil, fmt.Errorf("sign caller token: %w", err)
	}

	return &TestContext{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		callerToken: signed,
		domain:      Domain{ChainID: chainID, Contract: contract},
		community:   community,
		signers:     map[string]*Signer{},
	}, nil
}

// Reset clears per-scenario state while keeping the connection settings.
func (tc *TestContext) Reset() {
	tc.signers = map[string]*Signer{}
	tc.tokenID = 0
	tc.lastStatus = 0
	tc.lastBody = nil
}

// Community returns the uniq id of the provisioned test community.
func (tc *TestContext) Community() string { return tc.community }

// AddSigner generates and remembers a signer persona.
func (tc *TestContext) AddSigner(alias string) error {
	signer, err := NewSigner()
	if err != nil {
		return err
	}
	tc.signers[alias] = signer
	return nil
}

// SignerAddress returns the address of a previously generated persona.
func (tc *TestContext) SignerAddress(alias string) (string, error) {
	signer, err := tc.signerByAlias(alias)
	if err != nil {
		return "", err
	}
	return signer.Address, nil
}

// SignRegister signs a registration message with the persona's key.
func (tc *TestContext) SignRegister(alias string, msg RegisterMessage) (string, error) {
	signer, err := tc.signerByAlias(alias)
	if err != nil {
		return "", err
	}
	digest, err := tc.domain.RegisterDigest(msg)
	if err != nil {
		return "", err
	}
	return signer.Sign(digest), nil
}

// SignClaim signs a claim message with the persona's key.
func (tc *TestContext) SignClaim(alias string, tokenID uint64) (string, error) {
	signer, err := tc.signerByAlias(alias)
	if err != nil {
		return "", err
	}
	digest, err := tc.domain.ClaimDigest(tokenID)
	if err != nil {
		return "", err
	}
	return signer.Sign(digest), nil
}

// SignAllowlist signs an allowlist-edit message with the persona's key.
func (tc *TestContext) SignAllowlist(alias string, tokenID uint64) (string, error) {
	signer, err := tc.signerByAlias(alias)
	if err != nil {
		return "", err
	}
	digest, err := tc.domain.AddAllowlistDigest(tokenID)
	if err != nil {
		return "", err
	}
	return signer.Sign(digest), nil
}

func (tc *TestContext) signerByAlias(alias string) (*Signer, error) {
	signer, ok := tc.signers[alias]
	if !ok {
		return nil, fmt.Errorf("unknown signer %q", alias)
	}
	return signer, nil
}

// SaveTokenID remembers the token id from the last registration response.
func (tc *TestContext) SaveTokenID() error {
	raw, err := tc.ResponseField("token_id")
	if err != nil {
		return err
	}
	number, ok := raw.(json.Number)
	if !ok {
		return fmt.Errorf("token_id is not a number: %v", raw)
	}
	tokenID, err := strconv.ParseUint(number.String(), 10, 64)
	if err != nil {
		return err
	}
	tc.tokenID = tokenID
	return nil
}

// TokenID returns the saved token id.
func (tc *TestContext) TokenID() uint64 { return tc.tokenID }

// POST sends an authenticated JSON request to the gateway.
func (tc *TestContext) POST(path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tc.callerToken)
	return tc.do(req)
}

// GET sends an unauthenticated request, matching how public reads are used.
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var body map[string]any
	if err := decoder.Decode(&body); err == nil {
		tc.lastBody = body
	}
	return nil
}

// ResponseStatus returns the status code of the last exchange.
func (tc *TestContext) ResponseStatus() int { return tc.lastStatus }

// ResponseField returns a top-level field of the last JSON response body.
func (tc *TestContext) ResponseField(field string) (any, error) {
	if tc.lastBody == nil {
		return nil, fmt.Errorf("last response had no JSON body")
	}
	value, ok := tc.lastBody[field]
	if !ok {
		return nil, fmt.Errorf("field %q missing from response", field)
	}
	return value, nil
}
