package paypal_test

import (
	gohttp "net/http"
	"testing"

	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/payment/paypal"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenURL = "https://paypal.test/v1/oauth2/token"

func newTestClient(t *testing.T) (*paypal.Client, *testkit.MockTransport) {
	t.Helper()
	config.Set("PAYPAL_BASE_URL", "https://paypal.test")
	config.Set("PAYPAL_CLIENT_ID", "client-id")
	config.Set("PAYPAL_CLIENT_SECRET", "client-secret")

	mt := testkit.InterceptHTTP(t)
	mt.StubJSON(tokenURL, 200, `{"access_token": "oauth-token", "expires_in": 3600}`)
	return paypal.New(), mt
}

func TestCreateOrder(t *testing.T) {
	client, mt := newTestClient(t)

	mt.Stub("https://paypal.test/v2/checkout/orders", func(req *gohttp.Request) (int, string) {
		assert.Equal(t, "Bearer oauth-token", req.Header.Get("Authorization"))
		return 201, `{"id": "PP-1001", "status": "CREATED"}`
	})

	id, err := client.CreateOrder("49.99", "USD")
	require.NoError(t, err)
	assert.Equal(t, "PP-1001", id)
}

func TestTokenCachedAcrossCalls(t *testing.T) {
	client, mt := newTestClient(t)
	mt.StubJSON("https://paypal.test/v2/checkout/orders", 201, `{"id": "PP-1002", "status": "CREATED"}`)

	_, err := client.CreateOrder("10.00", "USD")
	require.NoError(t, err)
	_, err = client.CreateOrder("20.00", "USD")
	require.NoError(t, err)

	assert.Equal(t, 1, mt.Calls(tokenURL), "second call should reuse the cached token")
}

func TestCaptureOrder(t *testing.T) {
	client, mt := newTestClient(t)
	mt.StubJSON("https://paypal.test/v2/checkout/orders/PP-1003/capture", 201,
		`{"id": "PP-1003", "status": "COMPLETED"}`)

	status, err := client.CaptureOrder("PP-1003")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", status)
}

func TestCaptureOrderDeclined(t *testing.T) {
	client, mt := newTestClient(t)
	mt.StubJSON("https://paypal.test/v2/checkout/orders/PP-1004/capture", 200,
		`{"id": "PP-1004", "status": "DECLINED"}`)

	status, err := client.CaptureOrder("PP-1004")
	require.NoError(t, err)
	assert.Equal(t, "DECLINED", status)
}
