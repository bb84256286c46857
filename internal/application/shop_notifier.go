package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/config"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/pkg/mailer"
	mailtpl "github.com/oksasatya/go-pos-backoffice/pkg/mailer/templates"
)

// JobPublisher puts a JSON job on the notification queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns shop lifecycle events into email jobs for the notify worker.
type QueueNotifier struct {
	Publisher JobPublisher
	Config    *config.Config
	Logger    logrus.FieldLogger
}

var _ ShopNotifier = (*QueueNotifier)(nil)

func NewQueueNotifier(pub JobPublisher, cfg *config.Config, logger logrus.FieldLogger) *QueueNotifier {
	return &QueueNotifier{Publisher: pub, Config: cfg, Logger: logger}
}

func (n *QueueNotifier) ShopProvisioned(ctx context.Context, shop *entity.Shop) {
	to := recipient(shop)
	data := mailtpl.NewShopProvisionedData(n.Config, shop.ID, shop.Name, to,
		mailtpl.WithContactPerson(shop.ContactPerson),
		mailtpl.WithCity(shop.City),
		mailtpl.WithBalance(shop.Balance.StringFixed(2)),
		mailtpl.WithTime(shop.CreatedAt),
	)
	n.publish(ctx, shop, mailer.EmailJob{To: to, Template: mailtpl.ShopProvisioned, Data: data})
}

func (n *QueueNotifier) ShopDeactivated(ctx context.Context, shop *entity.Shop) {
	at := shop.CreatedAt
	if shop.UpdatedAt != nil {
		at = *shop.UpdatedAt
	}
	to := recipient(shop)
	data := mailtpl.NewShopDeactivatedData(n.Config, shop.ID, shop.Name, to,
		mailtpl.WithContactPerson(shop.ContactPerson),
		mailtpl.WithTime(at),
	)
	n.publish(ctx, shop, mailer.EmailJob{To: to, Template: mailtpl.ShopDeactivated, Data: data})
}

func (n *QueueNotifier) publish(ctx context.Context, shop *entity.Shop, job mailer.EmailJob) {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Publisher.PublishJSON(c, job); err != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{
			"shop_id":  shop.ID,
			"template": job.Template,
		}).Warn("publish shop notification failed")
	}
}

// recipient prefers the login email over the shop contact email.
func recipient(shop *entity.Shop) string {
	if shop.AccountEmail != "" {
		return shop.AccountEmail
	}
	return shop.Email
}

// NopNotifier drops every event. Used when notifications are disabled.
type NopNotifier struct{}

func (NopNotifier) ShopProvisioned(context.Context, *entity.Shop) {}
func (NopNotifier) ShopDeactivated(context.Context, *entity.Shop) {}
