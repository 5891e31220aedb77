package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront/catalog"
	"storefront/models"
)

const StatusPlaced = "placed"

type Repository interface {
	Insert(ctx context.Context, o models.Order) (models.Order, error)
}

type ProductLookup interface {
	Get(ctx context.Context, id string) (models.Product, error)
}

type Notifier interface {
	OrderPlaced(ctx context.Context, o models.Order) error
}

type Runner interface {
	Go(name string, fn func(ctx context.Context) error)
}

type Service struct {
	repo     Repository
	products ProductLookup
	notifier Notifier
	runner   Runner
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, products ProductLookup, notifier Notifier, runner Runner, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:     repo,
		products: products,
		notifier: notifier,
		runner:   runner,
		log:      log.With("component", "orders"),
		now:      time.Now,
	}
}

// Place validates and stores an order for a single catalog product, then
// schedules the admin and customer notifications.
func (s *Service) Place(ctx context.Context, in models.OrderInput) (models.Order, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.CustomerDetails.Email = strings.TrimSpace(in.CustomerDetails.Email)
	in.CustomerDetails.Phone = strings.TrimSpace(in.CustomerDetails.Phone)
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := models.Validate(in); err != nil {
		return models.Order{}, err
	}

	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return models.Order{}, catalog.ErrNotFound
		}
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	now := s.now().UTC()
	o := models.Order{
		OrderNumber:     strings.TrimSpace(in.OrderNumber),
		ProductID:       product.ID,
		ProductTitle:    in.ProductTitle,
		ProductImage:    in.ProductImage,
		Color:           in.Color,
		Size:            in.Size,
		Quantity:        in.Quantity,
		CustomerDetails: in.CustomerDetails,
		OrderDate:       now,
		PaymentMethod:   in.PaymentMethod,
		PaymentDate:     in.PaymentDate,
		Status:          StatusPlaced,
	}
	if o.ProductTitle == "" {
		o.ProductTitle = product.Title
	}
	if in.ProductPrice != nil {
		o.ProductPrice = *in.ProductPrice
	} else {
		o.ProductPrice = product.Price
	}
	if o.ProductImage == "" && len(product.Images) > 0 {
		o.ProductImage = product.Images[0]
	}
	if o.OrderNumber == "" {
		o.OrderNumber = newOrderNumber(now)
	}

	saved, err := s.repo.Insert(ctx, o)
	if err != nil {
		s.log.Error("insert order failed", "product_id", o.ProductID, "order_number", o.OrderNumber, "error", err)
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.log.Info("order placed", "order_id", saved.ID, "order_number", saved.OrderNumber)

	if s.notifier != nil && s.runner != nil {
		s.runner.Go("order notifications", func(ctx context.Context) error {
			return s.notifier.OrderPlaced(ctx, saved)
		})
	}
	return saved, nil
}

// newOrderNumber mirrors the storefront's ORD prefix with a date and a
// random suffix.
func newOrderNumber(now time.Time) string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(b)))
}
