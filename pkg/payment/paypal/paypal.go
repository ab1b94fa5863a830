// Package paypal is a client for the PayPal Orders v2 API.
//
// Flow: CreateOrder opens a PayPal order for the cart total and returns its
// ID to the storefront SDK; after shopper approval, CaptureOrder settles it.
package paypal

import (
	"fmt"
	"sync"
	"time"

	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/http"
)

// Client talks to the PayPal REST API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New builds a client from PAYPAL_* config.
func New() *Client {
	return &Client{
		baseURL:      config.PayPalBaseURL(),
		clientID:     config.PayPalClientID(),
		clientSecret: config.PayPalClientSecret(),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached OAuth access token, refreshing when it is within
// a minute of expiry.
func (c *Client) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	resp, err := http.Post(c.baseURL+"/v1/oauth2/token").
		BasicAuth(c.clientID, c.clientSecret).
		Form("grant_type=client_credentials").
		Timeout(15 * time.Second).
		Send()
	if err != nil {
		return "", fmt.Errorf("paypal: token: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return "", fmt.Errorf("paypal: token: %w", err)
	}

	var out tokenResponse
	if err := resp.JSON(&out); err != nil {
		return "", fmt.Errorf("paypal: token: %w", err)
	}

	c.accessToken = out.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	Amount amount `json:"amount"`
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder opens a CAPTURE-intent order for the given total and returns
// the PayPal order ID.
func (c *Client) CreateOrder(total, currency string) (string, error) {
	tok, err := c.token()
	if err != nil {
		return "", err
	}

	resp, err := http.Post(c.baseURL+"/v2/checkout/orders").
		Bearer(tok).
		Body(createOrderRequest{
			Intent: "CAPTURE",
			PurchaseUnits: []purchaseUnit{
				{Amount: amount{CurrencyCode: currency, Value: total}},
			},
		}).
		Timeout(15 * time.Second).
		Retry(2, time.Second).
		Send()
	if err != nil {
		return "", fmt.Errorf("paypal: create order: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return "", fmt.Errorf("paypal: create order: %w", err)
	}

	var out orderResponse
	if err := resp.JSON(&out); err != nil {
		return "", fmt.Errorf("paypal: create order: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("paypal: create order: empty order id")
	}
	return out.ID, nil
}

// CaptureOrder settles an approved order. Returns the final status
// ("COMPLETED" on success).
func (c *Client) CaptureOrder(orderID string) (string, error) {
	tok, err := c.token()
	if err != nil {
		return "", err
	}

	resp, err := http.Post(c.baseURL+"/v2/checkout/orders/"+orderID+"/capture").
		Bearer(tok).
		Timeout(15 * time.Second).
		Send()
	if err != nil {
		return "", fmt.Errorf("paypal: capture %s: %w", orderID, err)
	}
	if err := resp.Throw(); err != nil {
		return "", fmt.Errorf("paypal: capture %s: %w", orderID, err)
	}

	var out orderResponse
	if err := resp.JSON(&out); err != nil {
		return "", fmt.Errorf("paypal: capture %s: %w", orderID, err)
	}
	return out.Status, nil
}
