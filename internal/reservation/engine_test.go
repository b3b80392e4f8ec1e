package reservation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/AurelieMous/projet-zombieland/internal/notifier"
	"github.com/AurelieMous/projet-zombieland/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	events []notifier.ReservationEvent
}

func (r *recordingNotifier) NotifyReservation(_ context.Context, e notifier.ReservationEvent) error {
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	db     *gorm.DB
	engine *Engine
	events *recordingNotifier
	now    time.Time
	admin  access.Actor
	jean   access.Actor
	marie  access.Actor
	adulte models.Price
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	f := &fixture{
		db:     db,
		events: &recordingNotifier{},
		now:    time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC),
	}
	f.engine = NewEngine(db, Options{
		Location: time.UTC,
		Prefix:   "ZL",
		Notifier: f.events,
		Now:      func() time.Time { return f.now },
	})

	admin := testutil.CreateUser(t, db, "AdminZombie", models.RoleAdmin)
	jean := testutil.CreateUser(t, db, "JeanZ", models.RoleClient)
	marie := testutil.CreateUser(t, db, "MarieZombie", models.RoleClient)
	f.admin = access.Actor{UserID: admin.ID, Role: admin.Role}
	f.jean = access.Actor{UserID: jean.ID, Role: jean.Role}
	f.marie = access.Actor{UserID: marie.ID, Role: marie.Role}
	f.adulte = testutil.CreatePrice(t, db, models.PriceAdulte, 45.00)
	return f
}

// dayIn returns an open park date n days after the fixture's today.
func (f *fixture) dayIn(t *testing.T, n int) models.ParkDate {
	return testutil.CreateParkDate(t, f.db, f.now.AddDate(0, 0, n), true)
}

func (f *fixture) book(t *testing.T, actor access.Actor, daysAhead int) View {
	v, err := f.engine.Create(context.Background(), actor, CreateInput{
		DateID:       f.dayIn(t, daysAhead).ID,
		PriceID:      f.adulte.ID,
		TicketsCount: 1,
	})
	require.NoError(t, err)
	return v
}

func TestCreate_TotalAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := f.dayIn(t, 20)

	tests := []struct {
		typ     models.PriceType
		amount  float64
		tickets int
		want    string
	}{
		{models.PriceAdulte, 45.00, 2, "90.00"},
		{models.PriceEtudiant, 29.99, 3, "89.97"},
		{models.PriceGroupe, 35.00, 12, "420.00"},
		{models.PricePass2J, 79.99, 1, "79.99"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			price := testutil.CreatePrice(t, f.db, tt.typ, tt.amount)

			v, err := f.engine.Create(ctx, f.jean, CreateInput{DateID: date.ID, PriceID: price.ID, TicketsCount: tt.tickets})
			require.NoError(t, err)

			assert.Equal(t, tt.want, v.TotalAmount.String())
			assert.Equal(t, price.Amount.Times(tt.tickets), v.TotalAmount)
			assert.Equal(t, models.StatusPending, v.Status)
			assert.Equal(t, f.jean.UserID, v.UserID)
			assert.Regexp(t, `^ZL-\d+-[0-9A-F]{5}$`, v.ReservationNumber)
			require.NotNil(t, v.Date)
			require.NotNil(t, v.Price)
			assert.Equal(t, 20, v.DaysUntilVisit)
			assert.True(t, v.CanCancel)
		})
	}
}

func TestCreate_TotalIsFixedAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.book(t, f.jean, 20)
	require.NoError(t, f.db.Model(&f.adulte).Update("amount_cents", models.MoneyFromFloat(60)).Error)

	got, err := f.engine.Get(ctx, f.jean, int(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "45.00", got.TotalAmount.String())
}

func TestCreate_UniqueNumbers(t *testing.T) {
	f := newFixture(t)
	date := f.dayIn(t, 15)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		v, err := f.engine.Create(context.Background(), f.jean, CreateInput{DateID: date.ID, PriceID: f.adulte.ID, TicketsCount: 1})
		require.NoError(t, err)
		assert.False(t, seen[v.ReservationNumber], "duplicate number %s", v.ReservationNumber)
		seen[v.ReservationNumber] = true
	}
}

func TestCreate_DuplicateNumberIsConflict(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, f.jean, 15)

	dup := models.Reservation{
		ReservationNumber: v.ReservationNumber,
		UserID:            f.jean.UserID,
		DateID:            v.DateID,
		PriceID:           v.PriceID,
		TicketsCount:      1,
		TotalAmount:       v.TotalAmount,
		Status:            models.StatusPending,
	}
	err := apperr.FromStore(f.db.Create(&dup).Error, "reservation")
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	closed := testutil.CreateParkDate(t, f.db, f.now.AddDate(0, 0, 12), false)
	yesterday := f.dayIn(t, -1)
	today := f.dayIn(t, 0)

	tests := []struct {
		name string
		in   CreateInput
		kind apperr.Kind
	}{
		{"zero tickets", CreateInput{DateID: today.ID, PriceID: f.adulte.ID, TicketsCount: 0}, apperr.KindInvalidRequest},
		{"negative tickets", CreateInput{DateID: today.ID, PriceID: f.adulte.ID, TicketsCount: -2}, apperr.KindInvalidRequest},
		{"missing date id", CreateInput{PriceID: f.adulte.ID, TicketsCount: 1}, apperr.KindInvalidRequest},
		{"unknown date", CreateInput{DateID: 9999, PriceID: f.adulte.ID, TicketsCount: 1}, apperr.KindNotFound},
		{"unknown price", CreateInput{DateID: today.ID, PriceID: 9999, TicketsCount: 1}, apperr.KindNotFound},
		{"closed day", CreateInput{DateID: closed.ID, PriceID: f.adulte.ID, TicketsCount: 1}, apperr.KindInvalidRequest},
		{"past day", CreateInput{DateID: yesterday.ID, PriceID: f.adulte.ID, TicketsCount: 1}, apperr.KindInvalidRequest},
		{"total out of range", CreateInput{DateID: today.ID, PriceID: f.adulte.ID, TicketsCount: math.MaxInt64 / 4500 * 2}, apperr.KindInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Create(ctx, f.jean, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err), "got %v", err)
		})
	}

	t.Run("today is bookable", func(t *testing.T) {
		v, err := f.engine.Create(ctx, f.jean, CreateInput{DateID: today.ID, PriceID: f.adulte.ID, TicketsCount: 1})
		require.NoError(t, err)
		assert.Equal(t, 0, v.DaysUntilVisit)
		assert.False(t, v.CanCancel)
	})

	var count int64
	f.db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.book(t, f.jean, 5)

	t.Run("Owner", func(t *testing.T) {
		got, err := f.engine.Get(ctx, f.jean, int(v.ID))
		require.NoError(t, err)
		assert.Equal(t, v.ReservationNumber, got.ReservationNumber)
		assert.Equal(t, 5, got.DaysUntilVisit)
		assert.False(t, got.CanCancel)
		require.NotNil(t, got.User)
		assert.Equal(t, "JeanZ", got.User.DisplayName)
	})

	t.Run("Admin", func(t *testing.T) {
		got, err := f.engine.Get(ctx, f.admin, int(v.ID))
		require.NoError(t, err)
		assert.True(t, got.CanCancel)
	})

	t.Run("OtherClient", func(t *testing.T) {
		_, err := f.engine.Get(ctx, f.marie, int(v.ID))
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("InvalidID", func(t *testing.T) {
		_, err := f.engine.Get(ctx, f.jean, 0)
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := f.engine.Get(ctx, f.admin, 4242)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.book(t, f.jean, 20)
	f.now = f.now.Add(time.Minute)
	second := f.book(t, f.jean, 25)
	f.now = f.now.Add(time.Minute)
	f.book(t, f.marie, 30)

	mine, err := f.engine.ListMine(ctx, f.jean)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.True(t, mine[0].CanCancel)

	_, err = f.engine.ListAll(ctx, f.jean)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	all, err := f.engine.ListAll(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, v := range all {
		assert.NotNil(t, v.User)
		assert.True(t, v.CanCancel)
	}

	byUser, err := f.engine.ListByUser(ctx, f.admin, f.marie.UserID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = f.engine.ListByUser(ctx, f.marie, f.marie.UserID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.book(t, f.jean, 20)

	t.Run("AdminConfirms", func(t *testing.T) {
		got, err := f.engine.UpdateStatus(ctx, f.admin, int(v.ID), "CONFIRMED")
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)

		var stored models.Reservation
		require.NoError(t, f.db.First(&stored, v.ID).Error)
		assert.Equal(t, models.StatusConfirmed, stored.Status)
	})

	t.Run("AnyDirection", func(t *testing.T) {
		_, err := f.engine.UpdateStatus(ctx, f.admin, int(v.ID), "CANCELLED")
		require.NoError(t, err)
		got, err := f.engine.UpdateStatus(ctx, f.admin, int(v.ID), "PENDING")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("ClientForbidden", func(t *testing.T) {
		_, err := f.engine.UpdateStatus(ctx, f.jean, int(v.ID), "CONFIRMED")
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := f.engine.UpdateStatus(ctx, f.admin, int(v.ID), "REFUNDED")
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := f.engine.UpdateStatus(ctx, f.admin, 4242, "CONFIRMED")
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestCreate_LargestTotal(t *testing.T) {
	f := newFixture(t)

	n := int(math.MaxInt64 / 4500)
	v, err := f.engine.Create(context.Background(), f.jean, CreateInput{DateID: f.dayIn(t, 20).ID, PriceID: f.adulte.ID, TicketsCount: n})
	require.NoError(t, err)
	assert.Equal(t, models.Money(int64(n)*4500), v.TotalAmount)
	assert.Positive(t, int64(v.TotalAmount))

	_, err = f.engine.Create(context.Background(), f.jean, CreateInput{DateID: f.dayIn(t, 21).ID, PriceID: f.adulte.ID, TicketsCount: n + 1})
	assert.True(t, apperr.Is(err, apperr.KindInvalidRequest), "got %v", err)

	var count int64
	f.db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCancel_ParkTimezone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	ctx := context.Background()

	// Summer time ends on 2026-10-25, between today and both visits.
	f := newFixture(t)
	f.engine = NewEngine(f.db, Options{
		Location: paris,
		Notifier: f.events,
		Now:      func() time.Time { return f.now },
	})

	nine := f.book(t, f.jean, 9)
	assert.Equal(t, 9, nine.DaysUntilVisit)
	assert.False(t, nine.CanCancel)
	_, err = f.engine.Cancel(ctx, f.jean, int(nine.ID))
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "got %v", err)
	assert.ErrorContains(t, err, "9 day(s) remaining")

	ten := f.book(t, f.jean, 10)
	assert.Equal(t, 10, ten.DaysUntilVisit)
	assert.True(t, ten.CanCancel)
	_, err = f.engine.Cancel(ctx, f.jean, int(ten.ID))
	assert.NoError(t, err)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	exists := func(f *fixture, id uint) bool {
		var count int64
		f.db.Model(&models.Reservation{}).Where("id = ?", id).Count(&count)
		return count == 1
	}

	t.Run("OwnerNineDaysAhead", func(t *testing.T) {
		f := newFixture(t)
		v := f.book(t, f.jean, 9)

		_, err := f.engine.Cancel(ctx, f.jean, int(v.ID))
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
		assert.ErrorContains(t, err, "9 day(s) remaining")
		assert.True(t, exists(f, v.ID))
	})

	t.Run("OwnerTenDaysAhead", func(t *testing.T) {
		f := newFixture(t)
		v := f.book(t, f.jean, 10)

		msg, err := f.engine.Cancel(ctx, f.jean, int(v.ID))
		require.NoError(t, err)
		assert.Contains(t, msg, "cancelled")
		assert.False(t, exists(f, v.ID))
	})

	t.Run("AdminNotOwner", func(t *testing.T) {
		f := newFixture(t)
		ten := f.book(t, f.jean, 10)
		three := f.book(t, f.jean, 3)

		_, err := f.engine.Cancel(ctx, f.admin, int(ten.ID))
		require.NoError(t, err)
		msg, err := f.engine.Cancel(ctx, f.admin, int(three.ID))
		require.NoError(t, err)
		assert.Contains(t, msg, "administrator")
		assert.False(t, exists(f, ten.ID))
		assert.False(t, exists(f, three.ID))
	})

	t.Run("OtherClient", func(t *testing.T) {
		f := newFixture(t)
		v := f.book(t, f.jean, 60)

		_, err := f.engine.Cancel(ctx, f.marie, int(v.ID))
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
		assert.NotContains(t, err.Error(), "remaining")
		assert.True(t, exists(f, v.ID))
	})

	t.Run("Missing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Cancel(ctx, f.jean, 77)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		_, err = f.engine.Cancel(ctx, f.jean, -1)
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
	})

	t.Run("WindowClosesAsDaysPass", func(t *testing.T) {
		f := newFixture(t)
		v := f.book(t, f.jean, 15)

		f.now = f.now.AddDate(0, 0, 12)
		_, err := f.engine.Cancel(ctx, f.jean, int(v.ID))
		assert.ErrorContains(t, err, "3 day(s) remaining")
	})
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.book(t, f.jean, 20)
	_, err := f.engine.UpdateStatus(ctx, f.admin, int(v.ID), "CONFIRMED")
	require.NoError(t, err)
	_, err = f.engine.Cancel(ctx, f.jean, int(v.ID))
	require.NoError(t, err)

	require.Len(t, f.events.events, 3)
	assert.Equal(t, notifier.ReservationCreated, f.events.events[0].Type)
	assert.Equal(t, notifier.ReservationStatusChanged, f.events.events[1].Type)
	assert.Equal(t, models.StatusConfirmed, f.events.events[1].Reservation.Status)
	assert.Equal(t, notifier.ReservationCancelled, f.events.events[2].Type)
	assert.Equal(t, f.jean.UserID, f.events.events[2].ActorID)
	assert.Equal(t, v.ReservationNumber, f.events.events[2].Reservation.ReservationNumber)
}
