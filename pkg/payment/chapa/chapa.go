// Package chapa is a client for the Chapa payment API (hosted checkout).
//
// Flow: Initialize returns a checkout URL the storefront redirects the
// shopper to; after the shopper pays, Verify confirms the transaction by
// tx_ref before the order is finalized.
package chapa

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/http"
)

// Client talks to the Chapa REST API.
type Client struct {
	baseURL   string
	secretKey string
}

// New builds a client from CHAPA_BASE_URL / CHAPA_SECRET_KEY config.
func New() *Client {
	return &Client{
		baseURL:   config.ChapaBaseURL(),
		secretKey: config.ChapaSecretKey(),
	}
}

// InitializeRequest is the payload for creating a hosted checkout session.
type InitializeRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	TxRef     string `json:"tx_ref"`
	ReturnURL string `json:"return_url,omitempty"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// VerifyResult is the subset of the verify response checkout cares about.
type VerifyResult struct {
	Status   string  // "success" when the shopper paid
	Amount   float64 // amount Chapa actually collected
	Currency string
	TxRef    string
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Amount    interface{} `json:"amount"` // Chapa returns number or string
		Currency  string      `json:"currency"`
		Status    string      `json:"status"`
		TxRef     string      `json:"tx_ref"`
		Reference string      `json:"reference"`
	} `json:"data"`
}

// Initialize creates a hosted checkout session and returns the URL to
// redirect the shopper to.
func (c *Client) Initialize(req InitializeRequest) (string, error) {
	resp, err := http.Post(c.baseURL+"/transaction/initialize").
		Bearer(c.secretKey).
		Body(req).
		Timeout(15 * time.Second).
		Retry(2, time.Second).
		Send()
	if err != nil {
		return "", fmt.Errorf("chapa: initialize: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return "", fmt.Errorf("chapa: initialize: %w", err)
	}

	var out initializeResponse
	if err := resp.JSON(&out); err != nil {
		return "", fmt.Errorf("chapa: initialize: %w", err)
	}
	if out.Status != "success" || out.Data.CheckoutURL == "" {
		return "", fmt.Errorf("chapa: initialize rejected: %s", out.Message)
	}
	return out.Data.CheckoutURL, nil
}

// Verify looks up a transaction by tx_ref after the shopper returns from
// the hosted checkout.
func (c *Client) Verify(txRef string) (VerifyResult, error) {
	resp, err := http.Get(c.baseURL+"/transaction/verify/"+txRef).
		Bearer(c.secretKey).
		Timeout(15 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return VerifyResult{}, fmt.Errorf("chapa: verify %s: %w", txRef, err)
	}
	if err := resp.Throw(); err != nil {
		return VerifyResult{}, fmt.Errorf("chapa: verify %s: %w", txRef, err)
	}

	var out verifyResponse
	if err := resp.JSON(&out); err != nil {
		return VerifyResult{}, fmt.Errorf("chapa: verify %s: %w", txRef, err)
	}

	return VerifyResult{
		Status:   out.Data.Status,
		Amount:   parseAmount(out.Data.Amount),
		Currency: out.Data.Currency,
		TxRef:    out.Data.TxRef,
	}, nil
}

// parseAmount tolerates Chapa returning the amount as a JSON number or a
// quoted string.
func parseAmount(v interface{}) float64 {
	switch a := v.(type) {
	case float64:
		return a
	case string:
		f, _ := strconv.ParseFloat(a, 64)
		return f
	}
	return 0
}
