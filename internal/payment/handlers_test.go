package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjyapattanayak/coursepay/internal/gateway/razorpay"
)

func testOrder() razorpay.Order {
	return razorpay.Order{
		ID:       "order_abc",
		Entity:   "order",
		Amount:   49900,
		Currency: "INR",
		Receipt:  "receipt_order_1",
		Status:   "created",
	}
}

func testSubscription() razorpay.Subscription {
	return razorpay.Subscription{
		ID:         "sub_123",
		Entity:     "subscription",
		PlanID:     "plan_monthly",
		Status:     "created",
		TotalCount: 12,
	}
}

func newTestRouter(svc *Service) http.Handler {
	h := &Handler{Svc: svc, Validate: validator.New()}
	r := chi.NewRouter()
	r.Post("/createOrder", h.CreateOrder)
	r.Post("/verifyPayment", h.VerifyPayment)
	r.Post("/buySubscription", h.BuySubscription)
	r.Post("/verifySubscription", h.VerifySubscription)
	return r
}

func doJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreateOrder(t *testing.T) {
	gw := &fakeGateway{order: testOrder()}
	router := newTestRouter(newTestService(gw))

	rr := doJSON(t, router, "/createOrder", `{"courseId": 1, "amount": 499}`)
	require.Equal(t, http.StatusOK, rr.Code)

	// The gateway order is relayed verbatim so the checkout widget can
	// consume it directly.
	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "order_abc", got["id"])
	assert.Equal(t, "order", got["entity"])
	assert.Equal(t, float64(49900), got["amount"])
}

func TestHandlerCreateOrderStringFields(t *testing.T) {
	gw := &fakeGateway{order: testOrder()}
	router := newTestRouter(newTestService(gw))

	// Clients sometimes send ids and amounts as JSON strings.
	rr := doJSON(t, router, "/createOrder", `{"courseId": "1", "amount": "499"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlerCreateOrderMissingFields(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	for _, body := range []string{`{}`, `{"courseId": 1}`, `{"amount": 499}`, `{"courseId": 1, "amount": 0}`} {
		rr := doJSON(t, router, "/createOrder", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body=%s", body)
		assert.JSONEq(t, `{"success":false,"message":"course id and amount are required"}`, rr.Body.String())
	}
}

func TestHandlerCreateOrderFractionalAmount(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	// Prices are whole rupees; fractional amounts are rejected rather than
	// rounded.
	rr := doJSON(t, router, "/createOrder", `{"courseId": "1", "amount": 499.5}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"course id and amount are required"}`, rr.Body.String())
}

func TestHandlerCreateOrderMalformedBody(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	rr := doJSON(t, router, "/createOrder", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerCreateOrderGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: assert.AnError}
	router := newTestRouter(newTestService(gw))

	rr := doJSON(t, router, "/createOrder", `{"courseId": 1, "amount": 499}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Something went wrong while creating order"}`, rr.Body.String())
}

func TestHandlerVerifyPayment(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	sig := OrderSignature("test_secret", "order_abc", "pay_xyz")
	body := `{"order_id":"order_abc","payment_id":"pay_xyz","signature":"` + sig + `"}`
	rr := doJSON(t, router, "/verifyPayment", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"payment verified"}`, rr.Body.String())
}

func TestHandlerVerifyPaymentMismatch(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	// Signature over the swapped field order must be rejected.
	sig := Signature("test_secret", "pay_xyz", "order_abc")
	body := `{"order_id":"order_abc","payment_id":"pay_xyz","signature":"` + sig + `"}`
	rr := doJSON(t, router, "/verifyPayment", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"payment not verified - signature mismatch"}`, rr.Body.String())
}

func TestHandlerVerifyPaymentMissingFields(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	rr := doJSON(t, router, "/verifyPayment", `{"order_id":"order_abc"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"order_id, payment_id, and signature are required"}`, rr.Body.String())
}

func TestHandlerBuySubscription(t *testing.T) {
	gw := &fakeGateway{sub: testSubscription()}
	router := newTestRouter(newTestService(gw))

	rr := doJSON(t, router, "/buySubscription", `{"courseId": 2, "planId": "monthly"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		Success      bool            `json:"success"`
		Subscription json.RawMessage `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.Success)

	var sub map[string]any
	require.NoError(t, json.Unmarshal(got.Subscription, &sub))
	assert.Equal(t, "sub_123", sub["id"])
	assert.Equal(t, "created", sub["status"])
}

func TestHandlerBuySubscriptionInvalidPlan(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	rr := doJSON(t, router, "/buySubscription", `{"courseId": 2, "planId": "weekly"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid planId."}`, rr.Body.String())
}

func TestHandlerBuySubscriptionPlanNotConfigured(t *testing.T) {
	svc := newTestService(&fakeGateway{})
	svc.MonthlyPlanID = ""
	router := newTestRouter(svc)

	rr := doJSON(t, router, "/buySubscription", `{"courseId": 2, "planId": "yearly"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Server configuration error"}`, rr.Body.String())
}

func TestHandlerVerifySubscription(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	sig := SubscriptionSignature("test_secret", "sub_123", "pay_xyz")
	body := `{"subscription_id":"sub_123","payment_id":"pay_xyz","signature":"` + sig + `"}`
	rr := doJSON(t, router, "/verifySubscription", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"subscription payment verified"}`, rr.Body.String())
}

func TestHandlerVerifySubscriptionMismatch(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	body := `{"subscription_id":"sub_123","payment_id":"pay_xyz","signature":"deadbeef"}`
	rr := doJSON(t, router, "/verifySubscription", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"subscription payment not verified - signature mismatch"}`, rr.Body.String())
}

func TestHandlerVerifySubscriptionMissingFields(t *testing.T) {
	router := newTestRouter(newTestService(&fakeGateway{}))

	rr := doJSON(t, router, "/verifySubscription", `{"payment_id":"pay_xyz"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"subscription_id, payment_id, and signature are required"}`, rr.Body.String())
}
