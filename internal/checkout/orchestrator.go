package checkout

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/arjyapattanayak/coursepay/internal/pricing"
)

// OutcomeStatus is the user-visible result of a purchase attempt.
type OutcomeStatus string

const (
	OutcomeVerified  OutcomeStatus = "verified"
	OutcomeRejected  OutcomeStatus = "rejected"
	OutcomeCancelled OutcomeStatus = "cancelled"
	OutcomeFailed    OutcomeStatus = "failed"
)

// User-facing messages. Network trouble, a gateway-reported payment failure,
// and a signature mismatch are deliberately kept distinct.
const (
	MsgVerified          = "Payment successful."
	MsgCancelled         = "Payment cancelled."
	MsgNetworkFailure    = "Could not reach the payment service. Please try again."
	MsgPaymentFailure    = "The payment could not be completed."
	MsgSignatureMismatch = "Payment could not be verified. Please contact support."
	MsgInvalidPlan       = "Invalid planId."
)

// Outcome is what the orchestrator reports back to the user, together with
// the session that tracked the attempt.
type Outcome struct {
	Status  OutcomeStatus
	Message string
	Session *Session
}

// Orchestrator sequences intent creation, the external widget, and the
// verification claim for one purchase attempt at a time.
type Orchestrator struct {
	API      *Client
	Widget   Widget
	Logger   zerolog.Logger
	Currency string
}

// InitiateOneTimePayment runs the full one-time purchase flow for a course.
func (o *Orchestrator) InitiateOneTimePayment(ctx context.Context, courseID string, price int64, label string) Outcome {
	sess := newSession("order")

	order, err := o.API.CreateOrder(ctx, courseID, price)
	if err != nil {
		return o.intentFailed(sess, err)
	}
	sess.IntentID = order.ID

	event, outcome := o.openWidget(ctx, sess, Params{
		IntentID: order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Label:    label,
	})
	if outcome != nil {
		return *outcome
	}

	verified, err := o.API.VerifyPayment(ctx, order.ID, event.PaymentID, event.Signature)
	return o.settle(sess, verified, err)
}

// InitiateSubscription runs the recurring purchase flow. The plan id is
// validated locally before any network call.
func (o *Orchestrator) InitiateSubscription(ctx context.Context, courseID, planID, label string) Outcome {
	sess := newSession("subscription")

	if _, err := pricing.ParseCadence(planID); err != nil {
		_ = sess.advance(StateFailed)
		return Outcome{Status: OutcomeFailed, Message: MsgInvalidPlan, Session: sess}
	}

	sub, err := o.API.BuySubscription(ctx, courseID, planID)
	if err != nil {
		return o.intentFailed(sess, err)
	}
	sess.IntentID = sub.ID

	event, outcome := o.openWidget(ctx, sess, Params{
		IntentID:     sub.ID,
		Subscription: true,
		Currency:     o.Currency,
		Label:        label,
	})
	if outcome != nil {
		return *outcome
	}

	verified, err := o.API.VerifySubscription(ctx, sub.ID, event.PaymentID, event.Signature)
	return o.settle(sess, verified, err)
}

// openWidget opens the external widget and waits for its single event. A nil
// outcome means the attempt produced a completion claim to verify.
func (o *Orchestrator) openWidget(ctx context.Context, sess *Session, p Params) (Event, *Outcome) {
	_ = sess.advance(StateAwaitingClaim)

	select {
	case event, ok := <-o.Widget.Open(ctx, p):
		if !ok {
			break
		}
		switch event.Kind {
		case EventCompleted:
			return event, nil
		case EventFailed:
			_ = sess.advance(StateFailed)
			o.Logger.Warn().
				Str("session_id", sess.ID).
				Str("intent_id", sess.IntentID).
				Str("description", event.Description).
				Msg("widget reported payment failure")
			return Event{}, &Outcome{Status: OutcomeFailed, Message: MsgPaymentFailure, Session: sess}
		}
		// EventDismissed: the backend is never contacted.
	case <-ctx.Done():
	}
	_ = sess.advance(StateAbandoned)
	return Event{}, &Outcome{Status: OutcomeCancelled, Message: MsgCancelled, Session: sess}
}

func (o *Orchestrator) intentFailed(sess *Session, err error) Outcome {
	_ = sess.advance(StateFailed)
	o.Logger.Error().Err(err).Str("session_id", sess.ID).Str("kind", sess.Kind).Msg("intent creation failed")
	return Outcome{Status: OutcomeFailed, Message: failureMessage(err), Session: sess}
}

func failureMessage(err error) string {
	var endpointErr *EndpointError
	if errors.As(err, &endpointErr) {
		return MsgPaymentFailure
	}
	return MsgNetworkFailure
}

func (o *Orchestrator) settle(sess *Session, verified bool, err error) Outcome {
	if err != nil {
		_ = sess.advance(StateFailed)
		o.Logger.Error().Err(err).Str("session_id", sess.ID).Str("intent_id", sess.IntentID).Msg("verification claim failed")
		return Outcome{Status: OutcomeFailed, Message: failureMessage(err), Session: sess}
	}
	if !verified {
		_ = sess.advance(StateRejected)
		return Outcome{Status: OutcomeRejected, Message: MsgSignatureMismatch, Session: sess}
	}
	_ = sess.advance(StateVerified)
	return Outcome{Status: OutcomeVerified, Message: MsgVerified, Session: sess}
}
