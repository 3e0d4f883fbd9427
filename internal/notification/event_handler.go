package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lihess/lihess-backend/internal/core/events"
)

// EventHandler turns domain events into stored notifications and email. It
// runs after the publishing transaction committed, so a failure here never
// undoes the change it reports on.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleStaffTransferred(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.StaffTransferredEvent)
	if !ok {
		return fmt.Errorf("expected StaffTransferredEvent, got %T", event)
	}

	subject := "Center of Excellence transfer"
	message := fmt.Sprintf(
		"Dear %s,\n\nYou have been transferred from %s to %s (%s).\nYour new login username is %s.",
		ev.FullName, ev.OldCoEName, ev.NewCoEName, ev.CenterName, ev.NewUsername)

	return h.service.Notify(ctx, ev.StaffID, subject, message)
}

func (h *EventHandler) HandleAccountCreated(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.AccountCreatedEvent)
	if !ok {
		return fmt.Errorf("expected AccountCreatedEvent, got %T", event)
	}

	subject := "Your account is ready for activation"
	message := fmt.Sprintf(
		"Dear %s,\n\nAn account has been created for you.\nUsername: %s\nActivation code: %s\n\nThe code expires in 24 hours.",
		ev.FullName, ev.Username, ev.OTP)

	return h.service.Notify(ctx, ev.StaffID, subject, message)
}

func (h *EventHandler) HandlePasswordReset(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.PasswordResetEvent)
	if !ok {
		return fmt.Errorf("expected PasswordResetEvent, got %T", event)
	}

	subject := "Password reset requested"
	message := fmt.Sprintf(
		"Dear %s,\n\nA password reset was requested for %s.\nReset code: %s\n\nThe code expires in 24 hours.",
		ev.FullName, ev.Username, ev.OTP)

	return h.service.Notify(ctx, ev.StaffID, subject, message)
}

func (h *EventHandler) HandleLeaveChain(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.LeaveChainEvent)
	if !ok {
		return fmt.Errorf("expected LeaveChainEvent, got %T", event)
	}

	if err := h.service.Notify(ctx, ev.RecipientStaffID, ev.Subject, ev.Message); err != nil {
		return err
	}

	for _, observerID := range ev.ObserverStaffIDs {
		if err := h.service.Notify(ctx, observerID, ev.Subject, ev.Message); err != nil {
			h.logger.Warn("failed to notify observer", "staff_id", observerID, "error", err)
		}
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeStaffTransferred, h.HandleStaffTransferred)
	eventBus.Subscribe(events.EventTypeAccountCreated, h.HandleAccountCreated)
	eventBus.Subscribe(events.EventTypePasswordReset, h.HandlePasswordReset)
	eventBus.Subscribe(events.EventTypeLeaveApplied, h.HandleLeaveChain)
	eventBus.Subscribe(events.EventTypeLeaveForwarded, h.HandleLeaveChain)
	eventBus.Subscribe(events.EventTypeLeaveApproved, h.HandleLeaveChain)
	eventBus.Subscribe(events.EventTypeLeaveDeclined, h.HandleLeaveChain)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeStaffTransferred,
			events.EventTypeAccountCreated,
			events.EventTypePasswordReset,
			events.EventTypeLeaveApplied,
			events.EventTypeLeaveForwarded,
			events.EventTypeLeaveApproved,
			events.EventTypeLeaveDeclined,
		})
}
