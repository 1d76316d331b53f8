package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arjyapattanayak/coursepay/internal/catalog"
	"github.com/arjyapattanayak/coursepay/internal/gateway/razorpay"
	"github.com/arjyapattanayak/coursepay/internal/obs"
	"github.com/arjyapattanayak/coursepay/internal/pricing"
)

// Gateway abstracts the intent-creation primitives of the payment gateway.
type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (razorpay.Order, error)
	CreateSubscription(ctx context.Context, req razorpay.SubscriptionRequest) (razorpay.Subscription, error)
}

// PriceSource is the trusted course price lookup the intent factory consults.
type PriceSource interface {
	PriceFor(ctx context.Context, courseID string) (int64, error)
}

// Verdict is the outcome of a verification claim.
type Verdict struct {
	Verified bool
	Reason   string
}

// Service creates payment intents and verifies client-relayed payment claims.
// It is stateless; concurrent purchase attempts never interact.
type Service struct {
	Gateway  Gateway
	Catalog  PriceSource
	Recorder Recorder
	Logger   zerolog.Logger

	// Secret is the gateway key secret used to recompute checkout
	// signatures. Read-only after startup.
	Secret        string
	MonthlyPlanID string
	YearlyPlanID  string
	Currency      string

	// TrustClientAmount permits falling back to the client-supplied amount
	// when the course is unknown. Development convenience only; production
	// configurations keep it false so the catalog is the single price
	// authority.
	TrustClientAmount bool
}

// CreateOrderIntent opens a one-time payment intent for a course. The amount
// is re-derived from the catalog; the client value is advisory.
func (s *Service) CreateOrderIntent(ctx context.Context, courseID string, amount int64) (razorpay.Order, error) {
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.CreateOrderIntent")
	defer span.End()

	result := "error"
	defer func() {
		if obs.PaymentIntentTotal != nil {
			obs.PaymentIntentTotal.WithLabelValues("order", result).Inc()
		}
	}()

	courseID = strings.TrimSpace(courseID)
	if courseID == "" || amount <= 0 {
		result = "invalid"
		return razorpay.Order{}, missingFields("course id and amount are required")
	}
	span.SetAttributes(attribute.String("course.id", courseID))

	price := amount
	if s.Catalog != nil {
		trusted, err := s.Catalog.PriceFor(ctx, courseID)
		switch {
		case err == nil:
			if trusted != amount {
				s.Logger.Warn().
					Str("course_id", courseID).
					Int64("client_amount", amount).
					Int64("catalog_amount", trusted).
					Msg("client amount differs from catalog, using catalog price")
			}
			price = trusted
		case errors.Is(err, catalog.ErrCourseNotFound) && s.TrustClientAmount:
			s.Logger.Warn().Str("course_id", courseID).Msg("unknown course, trusting client amount")
		case errors.Is(err, catalog.ErrCourseNotFound):
			result = "invalid"
			return razorpay.Order{}, unknownCourse(err)
		default:
			span.RecordError(err)
			return razorpay.Order{}, intentFailed("Something went wrong while creating order", err)
		}
	}

	currency := s.Currency
	if currency == "" {
		currency = "INR"
	}
	req := razorpay.OrderRequest{
		Amount:   pricing.ToMinorUnits(price),
		Currency: currency,
		Receipt:  fmt.Sprintf("receipt_order_%s", uuid.NewString()),
	}
	order, err := s.Gateway.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.Logger.Error().Err(err).Str("course_id", courseID).Msg("gateway order creation failed")
		return razorpay.Order{}, intentFailed("Something went wrong while creating order", err)
	}
	result = "success"
	span.SetAttributes(attribute.String("order.id", order.ID))
	return order, nil
}

// CreateSubscriptionIntent opens a recurring payment intent for a course
// using one of the pre-registered plans.
func (s *Service) CreateSubscriptionIntent(ctx context.Context, courseID, planID string) (razorpay.Subscription, error) {
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.CreateSubscriptionIntent")
	defer span.End()

	result := "error"
	defer func() {
		if obs.PaymentIntentTotal != nil {
			obs.PaymentIntentTotal.WithLabelValues("subscription", result).Inc()
		}
	}()

	courseID = strings.TrimSpace(courseID)
	if courseID == "" || strings.TrimSpace(planID) == "" {
		result = "invalid"
		return razorpay.Subscription{}, missingFields("courseId and planId are required")
	}

	cadence, err := pricing.ParseCadence(planID)
	if err != nil {
		result = "invalid"
		return razorpay.Subscription{}, invalidPlan()
	}
	span.SetAttributes(
		attribute.String("course.id", courseID),
		attribute.String("plan.cadence", string(cadence)),
	)

	if s.MonthlyPlanID == "" || s.YearlyPlanID == "" {
		s.Logger.Error().Msg("MONTHLY_PLAN_ID or YEARLY_PLAN_ID is not configured")
		return razorpay.Subscription{}, configuration(errors.New("subscription plan ids not configured"))
	}

	planRef := s.MonthlyPlanID
	if cadence == pricing.CadenceYearly {
		planRef = s.YearlyPlanID
	}
	sub, err := s.Gateway.CreateSubscription(ctx, razorpay.SubscriptionRequest{
		PlanID:         planRef,
		CustomerNotify: 1,
		TotalCount:     cadence.Cycles(),
	})
	if err != nil {
		span.RecordError(err)
		s.Logger.Error().Err(err).Str("course_id", courseID).Str("plan", string(cadence)).Msg("gateway subscription creation failed")
		return razorpay.Subscription{}, intentFailed("Something went wrong while creating subscription", err)
	}
	result = "success"
	span.SetAttributes(attribute.String("subscription.id", sub.ID))
	return sub, nil
}

// VerifyOrderPayment checks a client-relayed one-time payment claim.
func (s *Service) VerifyOrderPayment(ctx context.Context, orderID, paymentID, signature string) (Verdict, error) {
	return s.verify(ctx, "order", orderID, paymentID, signature)
}

// VerifySubscriptionPayment checks a client-relayed subscription payment
// claim. The signing order is reversed relative to one-time payments.
func (s *Service) VerifySubscriptionPayment(ctx context.Context, subscriptionID, paymentID, signature string) (Verdict, error) {
	return s.verify(ctx, "subscription", subscriptionID, paymentID, signature)
}

func (s *Service) verify(ctx context.Context, kind, primaryID, paymentID, signature string) (Verdict, error) {
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.Verify")
	defer span.End()
	span.SetAttributes(attribute.String("payment.kind", kind))

	result := "error"
	defer func() {
		if obs.PaymentVerifyTotal != nil {
			obs.PaymentVerifyTotal.WithLabelValues(kind, result).Inc()
		}
	}()

	primaryID = strings.TrimSpace(primaryID)
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.TrimSpace(signature)
	if primaryID == "" || paymentID == "" || signature == "" {
		result = "invalid"
		if kind == "subscription" {
			return Verdict{}, missingFields("subscription_id, payment_id, and signature are required")
		}
		return Verdict{}, missingFields("order_id, payment_id, and signature are required")
	}
	if s.Secret == "" {
		s.Logger.Error().Msg("verification secret is not configured")
		return Verdict{}, configuration(errors.New("verification secret not configured"))
	}

	var ok bool
	if kind == "subscription" {
		ok = VerifySignature(s.Secret, paymentID, primaryID, signature)
	} else {
		ok = VerifySignature(s.Secret, primaryID, paymentID, signature)
	}

	s.Logger.Info().
		Str("kind", kind).
		Str("primary_id", primaryID).
		Str("payment_id", paymentID).
		Bool("match", ok).
		Msg("verification attempt")

	if !ok {
		result = "mismatch"
		return Verdict{Verified: false, Reason: "signature mismatch"}, nil
	}

	result = "verified"
	s.record(ctx, kind, primaryID, paymentID)
	return Verdict{Verified: true}, nil
}

// record commits the verified payment through the storage hook. Failures are
// logged and never flip a verdict: the signature check already succeeded.
func (s *Service) record(ctx context.Context, kind, primaryID, paymentID string) {
	recorder := s.Recorder
	if recorder == nil {
		recorder = NopRecorder{}
	}
	// Bound the write so a slow store cannot stall the verdict response.
	recordCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var err error
	if kind == "subscription" {
		err = recorder.RecordSubscriptionPayment(recordCtx, primaryID, paymentID)
	} else {
		err = recorder.RecordOrderPayment(recordCtx, primaryID, paymentID)
	}
	if err != nil {
		s.Logger.Error().Err(err).Str("kind", kind).Str("primary_id", primaryID).Msg("record verified payment")
	}
}
