// Package reservation books park visits and enforces who may see, change or
// cancel them.
package reservation

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/AurelieMous/projet-zombieland/internal/notifier"
	"gorm.io/gorm"
)

type Options struct {
	// Location is the park's timezone; defaults to UTC.
	Location *time.Location
	// Prefix starts every reservation number; defaults to "ZL".
	Prefix   string
	Notifier notifier.Notifier
	// Now replaces the wall clock, for tests.
	Now      func() time.Time
}

type Engine struct {
	db       *gorm.DB
	loc      *time.Location
	prefix   string
	notifier notifier.Notifier
	now      func() time.Time
}

func NewEngine(db *gorm.DB, opts Options) *Engine {
	e := &Engine{
		db:       db,
		loc:      opts.Location,
		prefix:   opts.Prefix,
		notifier: opts.Notifier,
		now:      opts.Now,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.prefix == "" {
		e.prefix = "ZL"
	}
	if e.notifier == nil {
		e.notifier = notifier.Nop{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// View is a reservation as returned to a caller, with the cancellation info
// computed for that caller.
type View struct {
	models.Reservation
	CancellationInfo
}

type CreateInput struct {
	DateID       uint
	PriceID      uint
	TicketsCount int
}

func (e *Engine) view(r models.Reservation, actor access.Actor) View {
	v := View{Reservation: r}
	if r.Date != nil {
		v.CancellationInfo = cancellationInfo(e.now(), r.Date.Day, e.loc, actor.IsAdmin())
	}
	return v
}

func (e *Engine) views(rs []models.Reservation, actor access.Actor) []View {
	out := make([]View, 0, len(rs))
	for _, r := range rs {
		out = append(out, e.view(r, actor))
	}
	return out
}

func (e *Engine) notify(ctx context.Context, typ notifier.EventType, actor access.Actor, r models.Reservation) {
	event := notifier.ReservationEvent{
		Type:        typ,
		ActorID:     actor.UserID,
		OccurredAt:  e.now().UTC(),
		Reservation: r,
	}
	if err := e.notifier.NotifyReservation(ctx, event); err != nil {
		log.Printf("Failed to send notification for %s: %v", r.ReservationNumber, err)
	}
}

// DaysUntil reports how many calendar days separate today from a park day.
func (e *Engine) DaysUntil(parkDay time.Time) int {
	return DaysBetween(StartOfDay(e.now(), e.loc), VisitStart(parkDay, e.loc))
}

func validID(id int, what string) (uint, error) {
	if id <= 0 {
		return 0, apperr.InvalidRequest("invalid %s id %d", what, id)
	}
	return uint(id), nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Date").Preload("Price")
}

func (e *Engine) find(ctx context.Context, id uint) (models.Reservation, error) {
	var r models.Reservation
	if err := withRelations(e.db.WithContext(ctx)).First(&r, id).Error; err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return r, apperr.NotFound("reservation %d not found", id)
		}
		return r, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return r, nil
}

// Create books tickets for a visit day at a tariff, owned by the actor.
func (e *Engine) Create(ctx context.Context, actor access.Actor, in CreateInput) (View, error) {
	if in.DateID == 0 || in.PriceID == 0 || in.TicketsCount < 1 {
		return View{}, apperr.InvalidRequest("invalid reservation data: date, price and at least one ticket are required")
	}

	db := e.db.WithContext(ctx)

	var parkDate models.ParkDate
	if err := db.First(&parkDate, in.DateID).Error; err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return View{}, apperr.NotFound("park date %d not found", in.DateID)
		}
		return View{}, fmt.Errorf("load park date: %w", err)
	}
	if !parkDate.IsOpen {
		return View{}, apperr.InvalidRequest("the park is closed on %s", parkDate.Day.Format(models.DayLayout))
	}
	if VisitStart(parkDate.Day, e.loc).Before(StartOfDay(e.now(), e.loc)) {
		return View{}, apperr.InvalidRequest("cannot book a visit on a past date")
	}

	var price models.Price
	if err := db.First(&price, in.PriceID).Error; err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return View{}, apperr.NotFound("price %d not found", in.PriceID)
		}
		return View{}, fmt.Errorf("load price: %w", err)
	}

	if price.Amount > 0 && int64(in.TicketsCount) > math.MaxInt64/int64(price.Amount) {
		return View{}, apperr.InvalidRequest("too many tickets: %d", in.TicketsCount)
	}

	r := models.Reservation{
		ReservationNumber: NewNumber(e.prefix, e.now()),
		UserID:            actor.UserID,
		DateID:            parkDate.ID,
		PriceID:           price.ID,
		TicketsCount:      in.TicketsCount,
		TotalAmount:       price.Amount.Times(in.TicketsCount),
		Status:            models.StatusPending,
	}
	if err := db.Create(&r).Error; err != nil {
		return View{}, apperr.FromStore(err, "reservation")
	}

	created, err := e.find(ctx, r.ID)
	if err != nil {
		return View{}, err
	}
	e.notify(ctx, notifier.ReservationCreated, actor, created)

	return e.view(created, actor), nil
}

// Get returns one reservation to its owner or to an admin.
func (e *Engine) Get(ctx context.Context, actor access.Actor, id int) (View, error) {
	rid, err := validID(id, "reservation")
	if err != nil {
		return View{}, err
	}
	r, err := e.find(ctx, rid)
	if err != nil {
		return View{}, err
	}
	if !actor.CanAccess(r.UserID) {
		return View{}, apperr.Forbidden("you do not have access to this reservation")
	}
	return e.view(r, actor), nil
}

// ListMine returns the actor's own reservations, newest first.
func (e *Engine) ListMine(ctx context.Context, actor access.Actor) ([]View, error) {
	return e.listByUser(ctx, actor, actor.UserID)
}

// ListByUser returns the reservations owned by userID; admins only.
func (e *Engine) ListByUser(ctx context.Context, actor access.Actor, userID uint) ([]View, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	return e.listByUser(ctx, actor, userID)
}

func (e *Engine) listByUser(ctx context.Context, actor access.Actor, userID uint) ([]View, error) {
	var rs []models.Reservation
	err := e.db.WithContext(ctx).
		Preload("Date").Preload("Price").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations of user %d: %w", userID, err)
	}
	return e.views(rs, actor), nil
}

// ListAll returns every reservation, newest first; admins only.
func (e *Engine) ListAll(ctx context.Context, actor access.Actor) ([]View, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	var rs []models.Reservation
	if err := withRelations(e.db.WithContext(ctx)).Order("created_at DESC, id DESC").Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return e.views(rs, actor), nil
}

// UpdateStatus moves a reservation to any status; admins only.
func (e *Engine) UpdateStatus(ctx context.Context, actor access.Actor, id int, status string) (View, error) {
	if !actor.IsAdmin() {
		return View{}, apperr.Forbidden("admin role required")
	}
	rid, err := validID(id, "reservation")
	if err != nil {
		return View{}, err
	}
	r, err := e.find(ctx, rid)
	if err != nil {
		return View{}, err
	}
	newStatus, ok := models.ParseReservationStatus(status)
	if !ok {
		return View{}, apperr.InvalidRequest("invalid status %q", status)
	}

	if err := e.db.WithContext(ctx).Model(&r).Update("status", newStatus).Error; err != nil {
		return View{}, fmt.Errorf("update reservation %d status: %w", rid, err)
	}
	r.Status = newStatus
	e.notify(ctx, notifier.ReservationStatusChanged, actor, r)

	return e.view(r, actor), nil
}

// Cancel deletes a reservation. Admins may always do so; the owner only
// while the visit is at least CancellationWindowDays away.
func (e *Engine) Cancel(ctx context.Context, actor access.Actor, id int) (string, error) {
	rid, err := validID(id, "reservation")
	if err != nil {
		return "", err
	}
	r, err := e.find(ctx, rid)
	if err != nil {
		return "", err
	}

	if !actor.IsAdmin() {
		if r.UserID != actor.UserID {
			return "", apperr.Forbidden("you cannot cancel this reservation")
		}
		if r.Date == nil {
			return "", fmt.Errorf("reservation %d has no park date", rid)
		}
		days := e.DaysUntil(r.Date.Day)
		if days < CancellationWindowDays {
			return "", apperr.Forbidden(
				"cancellation refused: %d day(s) remaining before the visit, cancelling is only possible at least %d days ahead",
				days, CancellationWindowDays)
		}
	}

	if err := e.db.WithContext(ctx).Delete(&models.Reservation{}, rid).Error; err != nil {
		return "", fmt.Errorf("delete reservation %d: %w", rid, err)
	}
	e.notify(ctx, notifier.ReservationCancelled, actor, r)

	if actor.IsAdmin() {
		return fmt.Sprintf("Reservation %d deleted by an administrator", rid), nil
	}
	return fmt.Sprintf("Reservation %d cancelled", rid), nil
}
