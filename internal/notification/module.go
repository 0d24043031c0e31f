// Package notification sends email notifications in response to domain
// events. It has no HTTP surface; it only subscribes to the event bus.
package notification

import (
	"context"

	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/platform/config"
	"campaign_portal_backend/platform/logger"
)

// Module wires email notifications onto the event bus.
type Module struct {
	sender    Sender
	recipient string
	log       *logger.Logger
}

// NewModule creates the notification module and subscribes it to the events
// it reacts to. When email is disabled or no recipient is configured, the
// Noop sender keeps the wiring inert.
func NewModule(cfg config.EmailConfig, bus events.Bus, log *logger.Logger) *Module {
	var sender Sender = NoopSender{}
	if cfg.GetEmailEnabled() && cfg.GetUploadReportRecipient() != "" {
		sender = NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
	}

	m := &Module{
		sender:    sender,
		recipient: cfg.GetUploadReportRecipient(),
		log:       log,
	}

	bus.Subscribe(events.BulkUploadCompleted{}.EventName(), events.HandlerFunc(m.handleBulkUploadCompleted))

	return m
}

func (m *Module) handleBulkUploadCompleted(ctx context.Context, event events.Event) error {
	completed, ok := event.(events.BulkUploadCompleted)
	if !ok {
		return nil
	}
	if m.recipient == "" {
		return nil
	}

	err := m.sender.SendUploadReport(ctx, m.recipient, UploadReport{
		UploadID:       completed.UploadID,
		TotalRecords:   completed.TotalRecords,
		ValidRecords:   completed.ValidRecords,
		InvalidRecords: completed.InvalidRecords,
	})
	if err != nil {
		m.log.Error("upload report email failed", "uploadId", completed.UploadID, "error", err)
		return err
	}
	return nil
}
