package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-pos-backoffice/config"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
	"github.com/oksasatya/go-pos-backoffice/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify", cfg.Env)

	if !cfg.NotifyEnabled {
		logger.Info("shop notifications disabled (NOTIFY_ENABLED=false); exiting")
		return
	}
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	if !mg.Configured() {
		log.Fatal("mailgun is not configured (MAILGUN_DOMAIN, MAILGUN_API_KEY, MAILGUN_SENDER)")
	}

	consumer, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
	if err != nil {
		log.Fatalf("rabbitmq connect: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume(16)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	w := &worker{Sender: mg, Logger: logger, SendTimeout: 15 * time.Second}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	logger.WithField("queue", cfg.RabbitMQNotifyQueue).Info("notify worker started")
	for {
		select {
		case <-stop:
			logger.Info("notify worker stopping")
			return
		case m, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			switch w.handle(m.Body, m.Redelivered) {
			case ack:
				_ = m.Ack(false)
			case requeue:
				_ = m.Nack(false, true)
			default:
				_ = m.Nack(false, false)
			}
		}
	}
}
