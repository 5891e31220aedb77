package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"time"

	"github.com/google/uuid"

	"storefront/models"
)

const (
	KeyMailVerification  = "mail.verification"
	KeyMailOrderAdmin    = "mail.order.admin"
	KeyMailOrderCustomer = "mail.order.customer"
)

// MailJob is consumed by the mail worker and sent as-is.
type MailJob struct {
	ID      string    `json:"id"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html"`
	Created time.Time `json:"created"`
}

type ProductEvent struct {
	EventID   string         `json:"eventId"`
	EventType string         `json:"eventType"`
	Timestamp time.Time      `json:"timestamp"`
	ProductID string         `json:"productId"`
	Product   models.Product `json:"product"`
}

type Notifier struct {
	pub         Publisher
	frontendURL string
	adminEmail  string
	now         func() time.Time
}

func NewNotifier(pub Publisher, frontendURL, adminEmail string) *Notifier {
	return &Notifier{pub: pub, frontendURL: frontendURL, adminEmail: adminEmail, now: time.Now}
}

// VerifyURL is the storefront page that completes email verification.
func (n *Notifier) VerifyURL(token string) string {
	return n.frontendURL + "/verify-email?token=" + url.QueryEscape(token)
}

func (n *Notifier) SendVerification(ctx context.Context, email, token string) error {
	link := html.EscapeString(n.VerifyURL(token))
	return n.mail(ctx, KeyMailVerification, email, "Verify your email",
		fmt.Sprintf(`<p>Click the link to verify your email: <a href="%s">%s</a></p>`, link, link))
}

// OrderPlaced sends the admin and customer mails. Both are attempted.
func (n *Notifier) OrderPlaced(ctx context.Context, o models.Order) error {
	c := o.CustomerDetails
	esc := html.EscapeString

	var errs []error
	if n.adminEmail != "" {
		body := fmt.Sprintf(`<h2>New Order Placed</h2>
<p><b>Product:</b> %s</p>
<p><b>Quantity:</b> %d</p>
<p><b>Customer:</b> %s (%s, %s)</p>
<p><b>Address:</b> %s, %s - %s</p>
<p><b>Order Number:</b> %s</p>
<p><b>Order Date:</b> %s</p>`,
			esc(o.ProductTitle), o.Quantity,
			esc(c.Name), esc(c.Email), esc(c.Phone),
			esc(c.Address), esc(c.City), esc(c.PostalCode),
			esc(o.OrderNumber), o.OrderDate.Format(time.RFC1123))
		errs = append(errs, n.mail(ctx, KeyMailOrderAdmin, n.adminEmail, "New Order Received: "+o.OrderNumber, body))
	}

	body := fmt.Sprintf(`<h2>Thank you for your order!</h2>
<p>Your order <b>%s</b> has been placed successfully.</p>
<p><b>Product:</b> %s</p>
<p><b>Quantity:</b> %d</p>
<p><b>Total:</b> %.2f</p>
<p>We will deliver your order to:</p>
<p>%s, %s - %s</p>`,
		esc(o.OrderNumber), esc(o.ProductTitle), o.Quantity,
		o.ProductPrice*float64(o.Quantity),
		esc(c.Address), esc(c.City), esc(c.PostalCode))
	errs = append(errs, n.mail(ctx, KeyMailOrderCustomer, c.Email, "Order Confirmation: "+o.OrderNumber, body))

	return errors.Join(errs...)
}

func (n *Notifier) ProductChanged(ctx context.Context, kind string, p models.Product) error {
	return n.publish(ctx, kind, ProductEvent{
		EventID:   uuid.NewString(),
		EventType: kind,
		Timestamp: n.now().UTC(),
		ProductID: p.ID,
		Product:   p,
	})
}

func (n *Notifier) mail(ctx context.Context, key, to, subject, body string) error {
	return n.publish(ctx, key, MailJob{
		ID:      uuid.NewString(),
		To:      to,
		Subject: subject,
		HTML:    body,
		Created: n.now().UTC(),
	})
}

func (n *Notifier) publish(ctx context.Context, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	if err := n.pub.Publish(ctx, key, body); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	return nil
}
