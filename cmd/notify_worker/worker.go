package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
	"github.com/oksasatya/go-pos-backoffice/pkg/mailer"
)

type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

type worker struct {
	Sender      mailer.Sender
	Logger      logrus.FieldLogger
	SendTimeout time.Duration
}

// handle delivers one queued job. Malformed jobs are dropped; a failed send
// is requeued once and dropped on redelivery.
func (w *worker) handle(body []byte, redelivered bool) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.Logger, "invalid notification payload", err, nil)
		return drop
	}
	if job.To == "" {
		helpers.LogWarn(w.Logger, "notification without recipient", nil, logrus.Fields{"template": job.Template})
		return drop
	}

	subject, text, html, err := helpers.RenderJob(&job)
	if err != nil {
		helpers.LogError(w.Logger, "render notification failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return drop
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(ctx, job.To, subject, text, html); err != nil {
		fields := logrus.Fields{"to": job.To, "redelivered": redelivered}
		if redelivered {
			helpers.LogError(w.Logger, "send notification failed, dropping", err, fields)
			return drop
		}
		helpers.LogWarn(w.Logger, "send notification failed, requeueing", err, fields)
		return requeue
	}

	helpers.LogInfo(w.Logger, "notification sent", logrus.Fields{"to": job.To, "template": job.Template})
	return ack
}
