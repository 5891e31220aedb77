package orders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/catalog"
	"storefront/models"
	"storefront/orders"
	"storefront/store/memstore"
	"storefront/tasks"
)

type fakeNotifier struct {
	mu     sync.Mutex
	placed []models.Order
}

func (f *fakeNotifier) OrderPlaced(_ context.Context, o models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, o)
	return nil
}

func setup(t *testing.T) (*orders.Service, *memstore.Orders, *fakeNotifier, *tasks.Runner, models.Product) {
	t.Helper()
	store := memstore.New()
	runner := tasks.NewRunner(nil, time.Second)
	products := catalog.NewService(store.Products(), nil, nil, runner, nil)

	price := 799.0
	p, err := products.Create(context.Background(), models.ProductInput{
		Title:  "ComfortFit Everyday Bra",
		Price:  &price,
		Images: []string{"/uploads/women/a.jpg"},
	})
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	svc := orders.NewService(store.Orders(), products, notifier, runner, nil)
	return svc, store.Orders(), notifier, runner, p
}

func customer() models.CustomerDetails {
	return models.CustomerDetails{
		Name:    "Asha",
		Email:   "asha@example.test",
		Phone:   "9999999999",
		Address: "1 Lane",
		City:    "Pune",
	}
}

func TestPlace_SnapshotsProduct(t *testing.T) {
	svc, repo, notifier, runner, p := setup(t)

	o, err := svc.Place(context.Background(), models.OrderInput{
		ProductID:       p.ID,
		Quantity:        2,
		Size:            "34B",
		CustomerDetails: customer(),
	})
	require.NoError(t, err)
	runner.Wait()

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "ComfortFit Everyday Bra", o.ProductTitle)
	assert.Equal(t, 799.0, o.ProductPrice)
	assert.Equal(t, "/uploads/women/a.jpg", o.ProductImage)
	assert.Equal(t, orders.StatusPlaced, o.Status)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, o.OrderNumber)
	assert.Equal(t, 1, repo.Count())

	require.Len(t, notifier.placed, 1)
	assert.Equal(t, o.ID, notifier.placed[0].ID)
}

func TestPlace_KeepsClientOrderNumber(t *testing.T) {
	svc, _, _, runner, p := setup(t)
	defer runner.Wait()

	o, err := svc.Place(context.Background(), models.OrderInput{
		ProductID:       p.ID,
		OrderNumber:     "ORD123",
		CustomerDetails: customer(),
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD123", o.OrderNumber)
	assert.Equal(t, 1, o.Quantity)
}

func TestPlace_Rejects(t *testing.T) {
	svc, repo, _, runner, p := setup(t)
	defer runner.Wait()

	noEmail := customer()
	noEmail.Email = ""
	noPhone := customer()
	noPhone.Phone = "  "

	for name, in := range map[string]models.OrderInput{
		"no product":   {CustomerDetails: customer()},
		"no email":     {ProductID: p.ID, CustomerDetails: noEmail},
		"no phone":     {ProductID: p.ID, CustomerDetails: noPhone},
		"bad quantity": {ProductID: p.ID, Quantity: -1, CustomerDetails: customer()},
	} {
		_, err := svc.Place(context.Background(), in)
		assert.ErrorIs(t, err, models.ErrValidation, name)
	}

	_, err := svc.Place(context.Background(), models.OrderInput{ProductID: "missing", CustomerDetails: customer()})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Equal(t, 0, repo.Count())
}
