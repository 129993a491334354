package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/Venipa/taiga/internal/logging"
)

const sinkDeliveryTimeout = 15 * time.Second

// Sink reports user-facing status and errors to the log and to a Service.
type Sink struct {
	logger  *slog.Logger
	service Service
}

// NewSink returns a Sink. A nil service reports to the log only.
func NewSink(logger *slog.Logger, service Service) *Sink {
	if service == nil {
		service = noopService{}
	}
	return &Sink{
		logger:  logging.NewComponentLogger(logger, "notify"),
		service: service,
	}
}

// ReportStatus records an informational status line.
func (s *Sink) ReportStatus(text string) {
	if s == nil {
		return
	}
	s.logger.Info(text, logging.String(logging.FieldEventType, "status"))
	ctx, cancel := context.WithTimeout(context.Background(), sinkDeliveryTimeout)
	defer cancel()
	if err := s.service.NotifyStatus(ctx, text); err != nil {
		s.deliveryFailed(err)
	}
}

// ReportError records a user-facing error with supporting detail.
func (s *Sink) ReportError(text, detail string) {
	if s == nil {
		return
	}
	s.logger.Error(text,
		logging.String(logging.FieldEventType, "error_report"),
		logging.String("detail", detail),
	)
	ctx, cancel := context.WithTimeout(context.Background(), sinkDeliveryTimeout)
	defer cancel()
	if err := s.service.NotifyError(ctx, text, detail); err != nil {
		s.deliveryFailed(err)
	}
}

func (s *Sink) deliveryFailed(err error) {
	logging.WarnWithContext(s.logger, "notification delivery failed", "notify_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		logging.String(logging.FieldImpact, "status not pushed; still logged"),
	)
}
