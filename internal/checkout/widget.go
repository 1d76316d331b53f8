package checkout

import "context"

// EventKind discriminates the widget's terminal callback.
type EventKind string

const (
	// EventCompleted carries the gateway ids and signature of a finished
	// payment.
	EventCompleted EventKind = "completed"
	// EventDismissed means the user closed the widget without paying.
	EventDismissed EventKind = "dismissed"
	// EventFailed means the gateway reported a payment failure inside the
	// widget.
	EventFailed EventKind = "failed"
)

// Event is the single terminal notification a widget session produces.
type Event struct {
	Kind EventKind

	// Set on EventCompleted. IntentID is the order or subscription id the
	// widget was opened with.
	IntentID  string
	PaymentID string
	Signature string

	// Set on EventFailed.
	Description string
}

// Params configures a widget session.
type Params struct {
	// IntentID is the gateway order or subscription id to collect against.
	IntentID string
	// Subscription selects the widget's recurring checkout mode.
	Subscription bool
	// Amount in minor currency units; informational for subscriptions.
	Amount   int64
	Currency string
	// Label is the human-readable purchase description shown to the user.
	Label string
}

// Widget is the external checkout surface. Open returns a oneshot channel:
// exactly one Event is delivered per session, after which the channel is
// closed. Implementations live outside this module; tests script them.
type Widget interface {
	Open(ctx context.Context, p Params) <-chan Event
}
