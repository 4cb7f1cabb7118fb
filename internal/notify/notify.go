package notify

import (
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/boutiquehq/boutique/config"
	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/internal/store"
)

// Notifier tells the shop admin about new orders. With SMTP configured it
// sends an email; otherwise the order is only logged. Notification failures
// never reach the checkout flow.
type Notifier struct {
	cfg config.SmtpConfig
}

func NewNotifier(cfg config.SmtpConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// Subscribe attaches the notifier to the order event stream.
func (n *Notifier) Subscribe(bus EventBus.Bus) error {
	return bus.SubscribeAsync(store.TopicOrderCreated, n.onOrderCreated, false)
}

func (n *Notifier) onOrderCreated(o domain.Order) {
	zap.L().Info("new order received",
		zap.String("order", o.ID),
		zap.String("customer", o.User.Name),
		zap.String("phone", o.User.Phone),
		zap.Float64("total", o.Total))

	if n.cfg.Host == "" || n.cfg.To == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("New %s order %s", o.Type, o.ID))
	m.SetBody("text/plain", orderBody(&o))

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Warn("order notification mail failed", zap.String("order", o.ID), zap.Error(err))
	}
}

func orderBody(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s (%s)\n", o.ID, o.Type)
	fmt.Fprintf(&b, "Customer: %s, phone %s\n", o.User.Name, o.User.Phone)
	if o.User.Location.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.User.Location.Address)
	}
	fmt.Fprintf(&b, "Location: %.6f, %.6f\n\n", o.User.Location.Lat, o.User.Location.Lng)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "  %s x%d @ %.0f\n", item.Code, item.Quantity, item.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %.0f\n", o.Total)
	return b.String()
}
