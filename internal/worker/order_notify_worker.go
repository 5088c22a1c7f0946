package worker

// order_notify_worker.go
// Processes order notification jobs from QueueOrderNotify.
// Renders the purchase order as a PDF and enqueues an email to the
// location's supplier contact address.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kitchenops/internal/infra"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// OrderNotificationPayload is the job envelope sent to QueueOrderNotify.
type OrderNotificationPayload struct {
	OrderID string `json:"order_id"`
}

// OrderNotifyWorker turns a sent order into a PDF plus an email job.
type OrderNotifyWorker struct {
	orderRepo      repository.OrderRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewOrderNotifyWorker(
	orderRepo repository.OrderRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *OrderNotifyWorker {
	return &OrderNotifyWorker{
		orderRepo:      orderRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single order notification job:
//  1. Parse OrderNotificationPayload from the job envelope
//  2. Fetch the order (with items and location) from DB
//  3. Generate the purchase-order PDF
//  4. Enqueue an email job addressed to the location contact
func (w *OrderNotifyWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload OrderNotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("order_notify_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueOrderNotify, "order_notify", raw, "invalid payload: "+err.Error(), 1)
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("order_notify_worker: invalid order_id")
		SendToDLQ(ctx, w.rdb, QueueOrderNotify, "order_notify", raw, "invalid order_id", 1)
		return
	}

	var order, fetchErr = w.orderRepo.FindByID(ctx, orderID)
	if fetchErr != nil {
		// transient DB hiccups get one short retry before giving up
		retryErr := withRetry(ctx, 3, func(attempt int) error {
			o, err := w.orderRepo.FindByID(ctx, orderID)
			if err != nil {
				log.Warn().Err(err).Int("attempt", attempt+1).
					Str("order_id", payload.OrderID).
					Msg("order_notify_worker: fetch failed, retrying")
				return err
			}
			order = o
			return nil
		})
		if retryErr != nil {
			log.Error().Err(retryErr).Str("order_id", payload.OrderID).Msg("order_notify_worker: order not found")
			SendToDLQ(ctx, w.rdb, QueueOrderNotify, "order_notify", raw, "fetch failed: "+retryErr.Error(), 3)
			return
		}
	}

	pdfPath, err := infra.GenerateOrderPDF(order, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("order_notify_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueOrderNotify, "order_notify", raw, "pdf failed: "+err.Error(), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("order_id", payload.OrderID).Msg("order_notify_worker: PDF generated")

	if order.Location == nil || order.Location.ContactEmail == nil || *order.Location.ContactEmail == "" {
		log.Warn().Str("order_id", payload.OrderID).Msg("order_notify_worker: location has no contact email, skipping send")
		return
	}

	locationName := order.Location.Name
	emailJob := EmailJobPayload{
		ToEmail: *order.Location.ContactEmail,
		Subject: fmt.Sprintf("Purchase order %s — %s", shortID(order.ID), locationName),
		Body: fmt.Sprintf("Purchase order for %s, requested on %s.\n%d line item(s) attached as PDF.",
			locationName, order.RequestDate.Format("2006-01-02"), len(order.Items)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", emailJob.ToEmail).Msg("order_notify_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", emailJob.ToEmail).Str("order_id", payload.OrderID).Msg("order_notify_worker: email job enqueued")
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
