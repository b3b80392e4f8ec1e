package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/models"
)

type EventType string

const (
	ReservationCreated       EventType = "reservation.created"
	ReservationStatusChanged EventType = "reservation.status_changed"
	ReservationCancelled     EventType = "reservation.cancelled"
)

type ReservationEvent struct {
	Type        EventType          `json:"type"`
	ActorID     uint               `json:"actor_id"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Reservation models.Reservation `json:"reservation"`
}

type Notifier interface {
	NotifyReservation(ctx context.Context, event ReservationEvent) error
}

// Multi fans an event out to every notifier and joins their failures.
type Multi []Notifier

func (m Multi) NotifyReservation(ctx context.Context, event ReservationEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyReservation(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) NotifyReservation(context.Context, ReservationEvent) error { return nil }
