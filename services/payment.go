package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaymentVerifier checks whether a claimed UPI transaction id actually went
// through. Bookings whose id cannot be verified yet stay payment-pending
// until the gateway webhook confirms them.
type PaymentVerifier interface {
	Verify(ctx context.Context, transactionID string) (bool, error)
}

// TrustingVerifier accepts every transaction id. Used when no gateway is
// configured, matching manual UPI payment collection.
type TrustingVerifier struct{}

func (TrustingVerifier) Verify(ctx context.Context, transactionID string) (bool, error) {
	return true, nil
}

// GatewayVerifier asks the configured payment gateway about a transaction.
type GatewayVerifier struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewGatewayVerifier(baseURL, secret string) *GatewayVerifier {
	return &GatewayVerifier{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GatewayVerifier) Verify(ctx context.Context, transactionID string) (bool, error) {
	body, err := json.Marshal(map[string]string{"transactionId": transactionID})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.secret)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var out struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Verified, nil
}
