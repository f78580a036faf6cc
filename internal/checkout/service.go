// Package checkout turns the current cart into a placed order: price it,
// clear it, and announce it on the events exchange.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type Receipt struct {
	OrderID  string
	Lines    []cart.Line
	Quote    pricing.Quote
	PlacedAt time.Time
}

type Service struct {
	cart      *cart.Session
	pricer    *pricing.Calculator
	publisher events.Publisher
	sequencer events.Sequencer
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(c *cart.Session, pricer *pricing.Calculator, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher(logger)
	}
	return &Service{
		cart:      c,
		pricer:    pricer,
		publisher: publisher,
		sequencer: events.NewMemorySequencer(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Checkout prices and clears the caller's cart. The order is placed once
// the cart is empty; the CartCheckedOut event is sent after that and a
// failure to send it does not undo the order.
func (s *Service) Checkout(ctx context.Context, coupon string) (Receipt, error) {
	sess := session.FromContext(ctx)
	if !sess.Authenticated() {
		return Receipt{}, apperr.AuthRequired("checkout")
	}

	lines, err := s.cart.List(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if len(lines) == 0 {
		return Receipt{}, apperr.Validation("checkout", "cart is empty")
	}

	quote := s.pricer.Price(cart.PricingLines(lines), coupon)

	if _, err := s.cart.Clear(ctx); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		OrderID:  uuid.NewString(),
		Lines:    lines,
		Quote:    quote,
		PlacedAt: s.now(),
	}

	partition := "user:" + sess.UserID
	seq, err := s.sequencer.NextSequence(ctx, partition)
	if err != nil {
		s.logger.Warn("event sequence unavailable", zap.String("order_id", receipt.OrderID), zap.Error(err))
	}
	ev := events.BuildCartCheckedOutEvent(payloadFor(sess.UserID, receipt), events.EnvelopeOptions{
		PartitionKey:  partition,
		Sequence:      seq,
		CorrelationID: middleware.GetCorrelationID(ctx),
		OccurredAt:    receipt.PlacedAt,
	})
	if err := s.publisher.PublishCartCheckedOut(ctx, ev); err != nil {
		s.logger.Error("publish CartCheckedOut failed",
			zap.String("order_id", receipt.OrderID),
			zap.String("event_id", ev.EventID),
			zap.Error(err),
		)
	}

	s.logger.Info("checkout completed",
		zap.String("order_id", receipt.OrderID),
		zap.String("user_id", sess.UserID),
		zap.Int("lines", len(lines)),
		zap.String("total", quote.Total.StringFixed(2)),
	)
	return receipt, nil
}

func payloadFor(userID string, r Receipt) events.CartCheckedOutPayload {
	p := events.CartCheckedOutPayload{
		OrderID:     r.OrderID,
		UserID:      userID,
		Items:       make([]events.CartCheckedOutItem, 0, len(r.Lines)),
		Subtotal:    r.Quote.Subtotal.Round(2).InexactFloat64(),
		Discount:    r.Quote.Discount.InexactFloat64(),
		Tax:         r.Quote.Tax.InexactFloat64(),
		TotalAmount: r.Quote.Total.Round(2).InexactFloat64(),
		Timestamp:   r.PlacedAt,
	}
	if r.Quote.CouponApplied {
		p.CouponCode = r.Quote.CouponCode
	}
	for _, l := range r.Lines {
		p.Items = append(p.Items, events.CartCheckedOutItem{
			ProductID: l.ProductID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return p
}
