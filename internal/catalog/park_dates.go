package catalog

import (
	"context"
	"fmt"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
)

// ParkDateFilter bounds the calendar. From and To are inclusive
// YYYY-MM-DD days.
type ParkDateFilter struct {
	From   string
	To     string
	IsOpen *bool
}

type ParkDateInput struct {
	Day    string
	IsOpen bool
	Notes  *string
}

// ParkDatePatch changes the status of a day. The day itself is immutable.
type ParkDatePatch struct {
	IsOpen *bool
	Notes  *string
}

func parseDay(field, s string) (models.ParkDate, error) {
	day, err := models.ParseDay(s)
	if err != nil {
		return models.ParkDate{}, apperr.InvalidRequest("%s must be a YYYY-MM-DD date, got %q", field, s)
	}
	return models.ParkDate{Day: models.DateOf(day)}, nil
}

// ListParkDates returns the calendar in day order.
func (s *Service) ListParkDates(ctx context.Context, f ParkDateFilter) ([]models.ParkDate, error) {
	q := s.db.WithContext(ctx)
	if f.From != "" {
		from, err := parseDay("from", f.From)
		if err != nil {
			return nil, err
		}
		q = q.Where("day >= ?", from.Day)
	}
	if f.To != "" {
		to, err := parseDay("to", f.To)
		if err != nil {
			return nil, err
		}
		q = q.Where("day <= ?", to.Day)
	}
	if f.IsOpen != nil {
		q = q.Where("is_open = ?", *f.IsOpen)
	}

	var out []models.ParkDate
	if err := q.Order("day ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list park dates: %w", err)
	}
	return out, nil
}

func (s *Service) GetParkDate(ctx context.Context, id int) (models.ParkDate, error) {
	var pd models.ParkDate
	pid, err := validID(id, "park date")
	if err != nil {
		return pd, err
	}
	err = load(s.db.WithContext(ctx), &pd, pid, "park date")
	return pd, err
}

func (s *Service) CreateParkDate(ctx context.Context, actor access.Actor, in ParkDateInput) (models.ParkDate, error) {
	if err := requireAdmin(actor); err != nil {
		return models.ParkDate{}, err
	}
	if err := required("day", in.Day); err != nil {
		return models.ParkDate{}, err
	}
	pd, err := parseDay("day", in.Day)
	if err != nil {
		return pd, err
	}
	pd.IsOpen = in.IsOpen
	pd.Notes = in.Notes

	if err := s.db.WithContext(ctx).Create(&pd).Error; err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return pd, apperr.Conflict("park date %s already exists", in.Day)
		}
		return pd, apperr.FromStore(err, "park date")
	}
	return pd, nil
}

func (s *Service) UpdateParkDate(ctx context.Context, actor access.Actor, id int, in ParkDatePatch) (models.ParkDate, error) {
	if err := requireAdmin(actor); err != nil {
		return models.ParkDate{}, err
	}
	pd, err := s.GetParkDate(ctx, id)
	if err != nil {
		return pd, err
	}

	changes := map[string]any{}
	if in.IsOpen != nil {
		changes["is_open"] = *in.IsOpen
	}
	if in.Notes != nil {
		changes["notes"] = *in.Notes
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&pd).Updates(changes).Error; err != nil {
			return pd, apperr.FromStore(err, "park date")
		}
	}
	return s.GetParkDate(ctx, id)
}

// DeleteParkDate removes a day no reservation is booked on.
func (s *Service) DeleteParkDate(ctx context.Context, actor access.Actor, id int) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	pd, err := s.GetParkDate(ctx, id)
	if err != nil {
		return "", err
	}
	n, err := s.references(ctx, &models.Reservation{}, "date_id", pd.ID)
	if err != nil {
		return "", fmt.Errorf("count reservations: %w", err)
	}
	if n > 0 {
		return "", apperr.InvalidRequest("cannot delete park date %s: %d reservation(s) booked on it",
			pd.Day.Format(models.DayLayout), n)
	}
	if err := s.db.WithContext(ctx).Delete(&models.ParkDate{}, pd.ID).Error; err != nil {
		return "", apperr.FromStore(err, "park date")
	}
	return fmt.Sprintf("Park date %s deleted", pd.Day.Format(models.DayLayout)), nil
}
