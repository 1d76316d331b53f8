package payment

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Recorder is the hook point for committing verified payments to storage.
// Persistence proper lives outside this service; the default Redis
// implementation keeps a lightweight record so operators can inspect recent
// verified claims. Claims are not deduplicated here: a repeated claim for the
// same intent is re-verified and re-recorded.
type Recorder interface {
	RecordOrderPayment(ctx context.Context, orderID, paymentID string) error
	RecordSubscriptionPayment(ctx context.Context, subscriptionID, paymentID string) error
}

// RedisRecorder stores verified payment records in Redis.
type RedisRecorder struct {
	Client *redis.Client
	TTL    time.Duration
}

// RecordOrderPayment stores the payment id under the order key.
func (r RedisRecorder) RecordOrderPayment(ctx context.Context, orderID, paymentID string) error {
	return r.set(ctx, fmt.Sprintf("paid:order:%s", orderID), paymentID)
}

// RecordSubscriptionPayment stores the payment id under the subscription key.
func (r RedisRecorder) RecordSubscriptionPayment(ctx context.Context, subscriptionID, paymentID string) error {
	return r.set(ctx, fmt.Sprintf("paid:subscription:%s", subscriptionID), paymentID)
}

func (r RedisRecorder) set(ctx context.Context, key, value string) error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Set(ctx, key, value, r.TTL).Err()
}

// NopRecorder discards records. Used when no Redis is configured.
type NopRecorder struct{}

// RecordOrderPayment implements Recorder.
func (NopRecorder) RecordOrderPayment(context.Context, string, string) error { return nil }

// RecordSubscriptionPayment implements Recorder.
func (NopRecorder) RecordSubscriptionPayment(context.Context, string, string) error { return nil }
