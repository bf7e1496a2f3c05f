package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidAssertion covers every way a federated login can fail: malformed
// or expired provider token, audience mismatch, or the provider being
// unreachable. Callers must not distinguish these externally.
var ErrInvalidAssertion = errors.New("invalid identity assertion")

type GoogleClaims struct {
	Audience   string `json:"aud"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint
// and checks they were issued for this application.
type GoogleVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

func NewGoogleVerifier(clientID, endpoint string, timeout time.Duration) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	reqURL := fmt.Sprintf("%s?id_token=%s", g.endpoint, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidAssertion
	}

	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}

	if claims.Audience != g.clientID {
		return nil, ErrInvalidAssertion
	}
	if claims.Email == "" {
		return nil, ErrInvalidAssertion
	}

	return &claims, nil
}
