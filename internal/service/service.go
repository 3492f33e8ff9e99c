package service

import (
	"context"
	"time"

	"go-retail-admin/internal/events"

	"github.com/sirupsen/logrus"
)

// publishTimeout bounds how long a committed write waits on its subscribers.
const publishTimeout = time.Second

// publish sends evt after its transaction committed. Subscribers are best effort:
// a failed or timed out publish is logged and the operation still succeeds.
func publish(ctx context.Context, pub events.Publisher, log logrus.FieldLogger, evt events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, evt); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"action":     evt.Action,
			"product_id": evt.Product.ID,
		}).Warn("failed to publish stock event")
	}
}

// clampLimit applies def when limit is not positive and caps it at max (0 means no cap).
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}
