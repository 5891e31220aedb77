package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront/models"
)

var ErrNotFound = errors.New("product not found")

// Repository persists products. Implementations return ErrNotFound for
// unknown or malformed ids.
type Repository interface {
	// Find returns one page of products matching q, newest first, and the
	// number of matches ignoring pagination.
	Find(ctx context.Context, q Query) ([]models.Product, int64, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (models.Product, error)
	Delete(ctx context.Context, id string) (models.Product, error)
}

type ImageCleaner interface {
	Remove(urls []string) []error
}

type EventPublisher interface {
	ProductChanged(ctx context.Context, kind string, p models.Product) error
}

// Runner runs side effects that must not hold up the request.
type Runner interface {
	Go(name string, fn func(ctx context.Context) error)
}

const (
	EventCreated = "product.created"
	EventUpdated = "product.updated"
	EventDeleted = "product.deleted"
)

type Service struct {
	repo   Repository
	images ImageCleaner
	events EventPublisher
	runner Runner
	log    *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, images ImageCleaner, events EventPublisher, runner Runner, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:   repo,
		images: images,
		events: events,
		runner: runner,
		log:    log.With("component", "catalog"),
		now:    time.Now,
	}
}

func (s *Service) List(ctx context.Context, q Query) (models.ProductsListResp, error) {
	q = q.Normalize()

	products, total, err := s.repo.Find(ctx, q)
	if err != nil {
		s.log.Error("list products failed", "gender", q.Gender, "category", q.Category, "page", q.Page, "error", err)
		return models.ProductsListResp{}, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return models.ProductsListResp{Products: products, TotalCount: total}, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Product{}, s.storageErr("get product", id, err)
	}
	return p, nil
}

func (s *Service) AdminList(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("admin list products failed", "error", err)
		return nil, fmt.Errorf("list all products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *Service) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := models.Validate(in); err != nil {
		return models.Product{}, err
	}

	p := models.NewProduct(in)
	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.repo.Insert(ctx, p)
	if err != nil {
		s.log.Error("create product failed", "title", p.Title, "error", err)
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.publish(EventCreated, created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if err := models.Validate(patch); err != nil {
		return models.Product{}, err
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), patch, s.now().UTC())
	if err != nil {
		return models.Product{}, s.storageErr("update product", id, err)
	}

	s.publish(EventUpdated, updated)
	return updated, nil
}

// Delete removes the product and schedules cleanup of its uploaded images.
// Cleanup failures are logged and never reach the caller.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return s.storageErr("delete product", id, err)
	}

	if s.images != nil && len(deleted.Images) > 0 && s.runner != nil {
		images := append([]string(nil), deleted.Images...)
		s.runner.Go("product image cleanup", func(context.Context) error {
			return errors.Join(s.images.Remove(images)...)
		})
	}

	s.publish(EventDeleted, deleted)
	return nil
}

func (s *Service) publish(kind string, p models.Product) {
	if s.events == nil || s.runner == nil {
		return
	}
	s.runner.Go(kind, func(ctx context.Context) error {
		return s.events.ProductChanged(ctx, kind, p)
	})
}

func (s *Service) storageErr(op, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	s.log.Error(op+" failed", "id", id, "error", err)
	return fmt.Errorf("%s %s: %w", op, id, err)
}
