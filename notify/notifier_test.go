package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

type message struct {
	key  string
	body []byte
}

type recorder struct {
	mu   sync.Mutex
	msgs []message
	err  error
}

func (r *recorder) Publish(_ context.Context, key string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, message{key, body})
	return r.err
}

func mailAt(t *testing.T, r *recorder, i int) (string, MailJob) {
	t.Helper()
	require.Greater(t, len(r.msgs), i)
	var job MailJob
	require.NoError(t, json.Unmarshal(r.msgs[i].body, &job))
	return r.msgs[i].key, job
}

func TestSendVerification(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "http://shop.test", "")

	require.NoError(t, n.SendVerification(context.Background(), "a@b.test", "abc123"))

	key, job := mailAt(t, rec, 0)
	assert.Equal(t, KeyMailVerification, key)
	assert.Equal(t, "a@b.test", job.To)
	assert.Contains(t, job.HTML, "http://shop.test/verify-email?token=abc123")
	assert.NotEmpty(t, job.ID)
}

func TestOrderPlaced_AdminAndCustomer(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "http://shop.test", "owner@shop.test")

	o := models.Order{
		OrderNumber:  "ORD-1",
		ProductTitle: "Bra <b>bold</b>",
		ProductPrice: 100,
		Quantity:     3,
		OrderDate:    time.Now(),
		CustomerDetails: models.CustomerDetails{
			Name:  "Asha",
			Email: "asha@example.test",
			City:  "Pune",
		},
	}
	require.NoError(t, n.OrderPlaced(context.Background(), o))
	require.Len(t, rec.msgs, 2)

	key, admin := mailAt(t, rec, 0)
	assert.Equal(t, KeyMailOrderAdmin, key)
	assert.Equal(t, "owner@shop.test", admin.To)
	assert.Contains(t, admin.Subject, "ORD-1")
	assert.NotContains(t, admin.HTML, "<b>bold</b>")

	key, customer := mailAt(t, rec, 1)
	assert.Equal(t, KeyMailOrderCustomer, key)
	assert.Equal(t, "asha@example.test", customer.To)
	assert.Contains(t, customer.HTML, "300.00")
}

func TestOrderPlaced_WithoutAdminEmail(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "http://shop.test", "")

	require.NoError(t, n.OrderPlaced(context.Background(), models.Order{
		CustomerDetails: models.CustomerDetails{Email: "c@shop.test"},
	}))
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, KeyMailOrderCustomer, rec.msgs[0].key)
}

func TestOrderPlaced_TriesBothOnFailure(t *testing.T) {
	rec := &recorder{err: errors.New("broker down")}
	n := NewNotifier(rec, "http://shop.test", "owner@shop.test")

	err := n.OrderPlaced(context.Background(), models.Order{})
	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, rec.msgs, 2)
}

func TestProductChanged(t *testing.T) {
	rec := &recorder{}
	n := NewNotifier(rec, "", "")
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	p := models.Product{ID: "p1", Title: "Boxer", Gender: models.GenderMen}
	require.NoError(t, n.ProductChanged(context.Background(), "product.updated", p))

	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "product.updated", rec.msgs[0].key)

	var ev ProductEvent
	require.NoError(t, json.Unmarshal(rec.msgs[0].body, &ev))
	assert.Equal(t, "p1", ev.ProductID)
	assert.Equal(t, "product.updated", ev.EventType)
	assert.True(t, fixed.Equal(ev.Timestamp))
	assert.Equal(t, "Boxer", ev.Product.Title)
}

func TestLogPublisher(t *testing.T) {
	assert.NoError(t, LogPublisher{}.Publish(context.Background(), "k", []byte("{}")))
}
