package chapa_test

import (
	gohttp "net/http"
	"testing"

	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/payment/chapa"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*chapa.Client, *testkit.MockTransport) {
	t.Helper()
	config.Set("CHAPA_BASE_URL", "https://chapa.test")
	config.Set("CHAPA_SECRET_KEY", "sk-test-123")
	return chapa.New(), testkit.InterceptHTTP(t)
}

func TestInitialize(t *testing.T) {
	client, mt := newTestClient(t)

	mt.Stub("https://chapa.test/transaction/initialize", func(req *gohttp.Request) (int, string) {
		assert.Equal(t, "Bearer sk-test-123", req.Header.Get("Authorization"))
		return 200, `{
			"status": "success",
			"message": "Hosted Link",
			"data": {"checkout_url": "https://checkout.chapa.co/checkout/payment/xyz"}
		}`
	})

	url, err := client.Initialize(chapa.InitializeRequest{
		Amount:   "800.00",
		Currency: "ETB",
		Email:    "sara@example.com",
		TxRef:    "tx-0001",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.chapa.co/checkout/payment/xyz", url)
}

func TestInitializeRejected(t *testing.T) {
	client, mt := newTestClient(t)

	mt.StubJSON("https://chapa.test/transaction/initialize", 200,
		`{"status": "failed", "message": "Invalid currency"}`)

	_, err := client.Initialize(chapa.InitializeRequest{Amount: "10", Currency: "XYZ", TxRef: "tx-0002"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestVerify(t *testing.T) {
	client, mt := newTestClient(t)

	mt.StubJSON("https://chapa.test/transaction/verify/tx-0003", 200, `{
		"status": "success",
		"data": {"amount": 800, "currency": "ETB", "status": "success", "tx_ref": "tx-0003"}
	}`)

	result, err := client.Verify("tx-0003")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 800.0, result.Amount)
	assert.Equal(t, "ETB", result.Currency)
	assert.Equal(t, "tx-0003", result.TxRef)
}

func TestVerifyStringAmount(t *testing.T) {
	client, mt := newTestClient(t)

	// Chapa sometimes quotes the amount.
	mt.StubJSON("https://chapa.test/transaction/verify/tx-0004", 200, `{
		"status": "success",
		"data": {"amount": "799.99", "currency": "ETB", "status": "success", "tx_ref": "tx-0004"}
	}`)

	result, err := client.Verify("tx-0004")
	require.NoError(t, err)
	assert.Equal(t, 799.99, result.Amount)
}

func TestVerifyHTTPError(t *testing.T) {
	client, mt := newTestClient(t)

	mt.StubJSON("https://chapa.test/transaction/verify/tx-0005", 404,
		`{"status": "failed", "message": "transaction not found"}`)

	_, err := client.Verify("tx-0005")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
