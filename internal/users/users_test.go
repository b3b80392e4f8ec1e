package users

import (
	"context"
	"testing"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/AurelieMous/projet-zombieland/internal/reservation"
	"github.com/AurelieMous/projet-zombieland/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB, access.Actor) {
	db := testutil.NewDB(t)
	engine := reservation.NewEngine(db, reservation.Options{})
	admin := testutil.CreateUser(t, db, "AdminZombie", models.RoleAdmin)
	return NewService(db, engine), db, access.Actor{UserID: admin.ID, Role: admin.Role}
}

func addReservation(t *testing.T, db *gorm.DB, user models.User, number string) {
	date := testutil.CreateParkDate(t, db, time.Now().AddDate(0, 1, len(number)), true)
	price := testutil.CreatePrice(t, db, models.PriceAdulte, 45)
	r := models.Reservation{
		ReservationNumber: number,
		UserID:            user.ID,
		DateID:            date.ID,
		PriceID:           price.ID,
		TicketsCount:      1,
		TotalAmount:       price.Amount,
		Status:            models.StatusPending,
	}
	require.NoError(t, db.Create(&r).Error)
}

func TestList(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()

	jean := testutil.CreateUser(t, db, "JeanZ", models.RoleClient)
	testutil.CreateUser(t, db, "MarieZombie", models.RoleClient)
	testutil.CreateUser(t, db, "PaulZombie", models.RoleClient)
	addReservation(t, db, jean, "ZL-1")
	addReservation(t, db, jean, "ZL-22")

	t.Run("Defaults", func(t *testing.T) {
		page, err := svc.List(ctx, admin, ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, DefaultLimit, page.Limit)
		require.Len(t, page.Data, 4)
		assert.Equal(t, "PaulZombie", page.Data[0].DisplayName)

		for _, u := range page.Data {
			if u.ID == jean.ID {
				assert.Equal(t, int64(2), u.ReservationsCount)
			} else {
				assert.Zero(t, u.ReservationsCount)
			}
		}
	})

	t.Run("Paginated", func(t *testing.T) {
		page, err := svc.List(ctx, admin, ListParams{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "AdminZombie", page.Data[0].DisplayName)
	})

	t.Run("Search", func(t *testing.T) {
		page, err := svc.List(ctx, admin, ListParams{Search: "PAUL"})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, "PaulZombie", page.Data[0].DisplayName)

		page, err = svc.List(ctx, admin, ListParams{Search: "JEANZ@"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("RoleAndEmail", func(t *testing.T) {
		page, err := svc.List(ctx, admin, ListParams{Role: "ADMIN"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)

		page, err = svc.List(ctx, admin, ListParams{Role: "CLIENT", Email: "marie"})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, "MarieZombie", page.Data[0].DisplayName)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := svc.List(ctx, admin, ListParams{Role: "ROOT"})
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
		_, err = svc.List(ctx, admin, ListParams{Limit: 500})
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
		_, err = svc.List(ctx, admin, ListParams{Page: -1})
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
	})

	t.Run("ClientForbidden", func(t *testing.T) {
		_, err := svc.List(ctx, access.Actor{UserID: jean.ID, Role: models.RoleClient}, ListParams{})
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})
}

func TestList_SearchIsLiteral(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, db, "john_doe", models.RoleClient)
	testutil.CreateUser(t, db, "johnXdoe", models.RoleClient)
	testutil.CreateUser(t, db, "100%Zombie", models.RoleClient)

	page, err := svc.List(ctx, admin, ListParams{Search: "john_doe"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "john_doe", page.Data[0].DisplayName)

	page, err = svc.List(ctx, admin, ListParams{Search: "%z"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "100%Zombie", page.Data[0].DisplayName)

	page, err = svc.List(ctx, admin, ListParams{Email: "n_d"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestGet(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()
	jean := testutil.CreateUser(t, db, "JeanZ", models.RoleClient)
	addReservation(t, db, jean, "ZL-1")

	got, err := svc.Get(ctx, admin, int(jean.ID))
	require.NoError(t, err)
	assert.Equal(t, "JeanZ", got.DisplayName)
	assert.Equal(t, int64(1), got.ReservationsCount)

	_, err = svc.Get(ctx, admin, 0)
	assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
	_, err = svc.Get(ctx, admin, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdate(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()
	jean := testutil.CreateUser(t, db, "JeanZ", models.RoleClient)
	marie := testutil.CreateUser(t, db, "MarieZombie", models.RoleClient)

	str := func(s string) *string { return &s }
	no := false

	t.Run("Fields", func(t *testing.T) {
		got, err := svc.Update(ctx, admin, int(jean.ID), Update{
			DisplayName: str("JeanZombie"),
			Email:       str("jean@zombieland.fr"),
			Role:        str("ADMIN"),
			IsActive:    &no,
		})
		require.NoError(t, err)
		assert.Equal(t, "JeanZombie", got.DisplayName)
		assert.Equal(t, "jean@zombieland.fr", got.Email)
		assert.Equal(t, models.RoleAdmin, got.Role)
		assert.False(t, got.IsActive)
	})

	t.Run("SameValuesAllowed", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, int(marie.ID), Update{Email: str(marie.Email), DisplayName: str(marie.DisplayName)})
		assert.NoError(t, err)
	})

	t.Run("Conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, int(marie.ID), Update{Email: str("jean@zombieland.fr")})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
		_, err = svc.Update(ctx, admin, int(marie.ID), Update{DisplayName: str("JeanZombie")})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, int(marie.ID), Update{Role: str("ROOT")})
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
		_, err = svc.Update(ctx, admin, int(marie.ID), Update{Email: str("not-an-email")})
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
		_, err = svc.Update(ctx, admin, int(marie.ID), Update{DisplayName: str("M")})
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, 999, Update{Role: str("ADMIN")})
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestRemove(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()
	jean := testutil.CreateUser(t, db, "JeanZ", models.RoleClient)
	marie := testutil.CreateUser(t, db, "MarieZombie", models.RoleClient)
	addReservation(t, db, jean, "ZL-1")

	t.Run("WithReservations", func(t *testing.T) {
		_, err := svc.Remove(ctx, admin, int(jean.ID))
		assert.True(t, apperr.Is(err, apperr.KindInvalidRequest))
		assert.Contains(t, err.Error(), "1 reservation(s)")

		var count int64
		db.Model(&models.User{}).Where("id = ?", jean.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("WithoutReservations", func(t *testing.T) {
		msg, err := svc.Remove(ctx, admin, int(marie.ID))
		require.NoError(t, err)
		assert.Contains(t, msg, "MarieZombie")

		_, err = svc.Get(ctx, admin, int(marie.ID))
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("ClientForbidden", func(t *testing.T) {
		_, err := svc.Remove(ctx, access.Actor{UserID: jean.ID, Role: models.RoleClient}, int(jean.ID))
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})
}

func TestReservations(t *testing.T) {
	svc, db, admin := setup(t)
	ctx := context.Background()
	jean := testutil.CreateUser(t, db, "JeanZ", models.RoleClient)
	addReservation(t, db, jean, "ZL-1")
	addReservation(t, db, jean, "ZL-22")

	got, err := svc.Reservations(ctx, admin, int(jean.ID))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ZL-22", got[0].ReservationNumber)
	assert.NotNil(t, got[0].Date)

	_, err = svc.Reservations(ctx, admin, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
