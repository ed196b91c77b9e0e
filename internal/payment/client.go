// Package payment talks to the external payment processor's REST API.
// Verification is a synchronous two-step call chain: exchange the
// server-held key/secret for a bearer token, then fetch the transaction.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

const DefaultBaseURL = "https://api.iamport.kr"

type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
}

func NewClient(baseURL, key, secret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		key:        key,
		secret:     secret,
		httpClient: http.DefaultClient,
	}
}

type apiEnvelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type paymentResponse struct {
	ImpUID      string `json:"imp_uid"`
	MerchantUID string `json:"merchant_uid"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
}

// GetToken exchanges the server-held credentials for a bearer token.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"imp_key":    c.key,
		"imp_secret": c.secret,
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/getToken", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var token tokenResponse
	if err := c.do(req, &token); err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("token response has no access token")
	}

	return token.AccessToken, nil
}

// GetPayment fetches a transaction record by its gateway id.
func (c *Client) GetPayment(ctx context.Context, token, impUID string) (port.PaymentRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+impUID, nil)
	if err != nil {
		return port.PaymentRecord{}, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var payment paymentResponse
	if err := c.do(req, &payment); err != nil {
		return port.PaymentRecord{}, fmt.Errorf("payment request: %w", err)
	}

	return port.PaymentRecord{
		ImpUID:      payment.ImpUID,
		MerchantUID: payment.MerchantUID,
		Status:      payment.Status,
		Amount:      payment.Amount,
	}, nil
}

// Verify fetches the transaction and fails unless its status is "paid" and
// its amount exactly equals expectedAmount. Any failure is terminal for the
// request; retry is left to the caller's client.
func (c *Client) Verify(ctx context.Context, impUID string, expectedAmount int64) (port.PaymentRecord, error) {
	token, err := c.GetToken(ctx)
	if err != nil {
		return port.PaymentRecord{}, fmt.Errorf("%w: %v", domain.ErrPaymentVerification, err)
	}

	record, err := c.GetPayment(ctx, token, impUID)
	if err != nil {
		return port.PaymentRecord{}, fmt.Errorf("%w: %v", domain.ErrPaymentVerification, err)
	}

	if record.Status != "paid" {
		return record, fmt.Errorf("%w: payment status is %q, not paid", domain.ErrPaymentVerification, record.Status)
	}

	if record.Amount != expectedAmount {
		return record, fmt.Errorf("%w: amount mismatch, expected %d got %d",
			domain.ErrPaymentVerification, expectedAmount, record.Amount)
	}

	return record, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if envelope.Code != 0 {
		return fmt.Errorf("gateway error (code %d): %s", envelope.Code, envelope.Message)
	}

	if len(envelope.Response) == 0 {
		return fmt.Errorf("gateway response is empty")
	}

	if err := json.Unmarshal(envelope.Response, out); err != nil {
		return fmt.Errorf("decode response payload: %w", err)
	}

	return nil
}
