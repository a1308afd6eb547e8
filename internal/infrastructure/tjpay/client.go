package tjpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agroparts/payment-service/internal/config"
)

// Client talks to the hosted payment processor: client-credentials token
// exchange plus hosted-session creation. Tokens are short-lived and
// fetched per call; the session itself expires server-side after its TTL.
type Client struct {
	cfg  config.ProcessorConfig
	http *http.Client
}

func NewClient(cfg config.ProcessorConfig) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			// The processor endpoints must never hang a webhook or
			// checkout handler.
			Timeout: 10 * time.Second,
		},
	}
}

type SessionRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	MerchantRef    string            `json:"merchantRef"`
	ReturnURL      string            `json:"returnUrl"`
	CancelURL      string            `json:"cancelUrl"`
	WebhookURL     string            `json:"webhookUrl"`
	PaymentMethods []string          `json:"paymentMethods,omitempty"`
	ExpirySeconds  int               `json:"expiresIn"`
	Purpose        string            `json:"purpose"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type SessionResponse struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchToken exchanges the long-lived credentials for a short-lived access
// token.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/oauth/token", c.cfg.BaseURL),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	response, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint returned %d", response.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(responseBodyBytes, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}

	return token.AccessToken, nil
}

// CreateSession requests a hosted-payment session. Amount is in minor
// units; the caller forces it to 0 for tokenize-only sessions.
func (c *Client) CreateSession(ctx context.Context, token string, sessionReq SessionRequest) (*SessionResponse, error) {
	requestBodyBytes, err := json.Marshal(sessionReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/sessions", c.cfg.BaseURL),
		bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	response, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var session SessionResponse
		if err := json.Unmarshal(responseBodyBytes, &session); err != nil {
			return nil, err
		}
		return &session, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil || errResp.Error == "" {
		return nil, fmt.Errorf("session endpoint returned %d", response.StatusCode)
	}
	return nil, fmt.Errorf("session endpoint: %s", errResp.Error)
}
