package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/arjyapattanayak/coursepay/internal/common"
)

// Handler exposes the payment HTTP endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// flexString accepts a JSON string or number and keeps its textual form.
// Browser clients send course ids and amounts in either shape.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type createOrderRequest struct {
	CourseID flexString `json:"courseId"`
	Amount   flexString `json:"amount"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type buySubscriptionRequest struct {
	CourseID flexString `json:"courseId"`
	PlanID   string     `json:"planId" validate:"required"`
}

type verifySubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
	PaymentID      string `json:"payment_id" validate:"required"`
	Signature      string `json:"signature" validate:"required"`
}

// CreateOrder opens a one-time payment intent and returns the gateway order
// object verbatim.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "payment handler unavailable")
		return
	}
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Amounts are whole rupees; a fractional value is rejected, not rounded.
	amount, err := strconv.ParseInt(string(req.Amount), 10, 64)
	if err != nil || amount <= 0 || req.CourseID == "" {
		common.Fail(w, http.StatusBadRequest, "course id and amount are required")
		return
	}
	order, err := h.Svc.CreateOrderIntent(r.Context(), string(req.CourseID), amount)
	if err != nil {
		common.FailFromError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, order)
}

// VerifyPayment checks the client-relayed claim for a one-time payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "payment handler unavailable")
		return
	}
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate(req); err != nil {
		common.Fail(w, http.StatusBadRequest, "order_id, payment_id, and signature are required")
		return
	}
	verdict, err := h.Svc.VerifyOrderPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		common.FailFromError(w, err)
		return
	}
	if !verdict.Verified {
		common.Fail(w, http.StatusBadRequest, "payment not verified - "+verdict.Reason)
		return
	}
	common.OK(w, "payment verified")
}

// BuySubscription opens a recurring payment intent.
func (h *Handler) BuySubscription(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "payment handler unavailable")
		return
	}
	var req buySubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseID == "" || req.PlanID == "" {
		common.Fail(w, http.StatusBadRequest, "courseId and planId are required")
		return
	}
	sub, err := h.Svc.CreateSubscriptionIntent(r.Context(), string(req.CourseID), req.PlanID)
	if err != nil {
		common.FailFromError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true, "subscription": sub})
}

// VerifySubscription checks the client-relayed claim for a subscription
// payment.
func (h *Handler) VerifySubscription(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "payment handler unavailable")
		return
	}
	var req verifySubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate(req); err != nil {
		common.Fail(w, http.StatusBadRequest, "subscription_id, payment_id, and signature are required")
		return
	}
	verdict, err := h.Svc.VerifySubscriptionPayment(r.Context(), req.SubscriptionID, req.PaymentID, req.Signature)
	if err != nil {
		common.FailFromError(w, err)
		return
	}
	if !verdict.Verified {
		common.Fail(w, http.StatusBadRequest, "subscription payment not verified - "+verdict.Reason)
		return
	}
	common.OK(w, "subscription payment verified")
}

func (h *Handler) validate(v any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}
