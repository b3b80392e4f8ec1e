package catalog

import (
	"context"
	"fmt"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
)

type PriceInput struct {
	Label        string
	Type         string
	Amount       models.Money
	DurationDays int
}

type PricePatch struct {
	Label        *string
	Type         *string
	Amount       *models.Money
	DurationDays *int
}

func parsePriceType(s string) (models.PriceType, error) {
	t := models.PriceType(s)
	if !t.Valid() {
		return "", apperr.InvalidRequest("invalid price type %q, expected one of %v", s, models.PriceTypes)
	}
	return t, nil
}

func validAmount(m models.Money) error {
	if m <= 0 {
		return apperr.InvalidRequest("amount must be positive")
	}
	return nil
}

func validDuration(days int) error {
	if days < 1 {
		return apperr.InvalidRequest("duration_days must be at least 1")
	}
	return nil
}

// ListPrices returns the tariffs, cheapest first, optionally of one type.
func (s *Service) ListPrices(ctx context.Context, typ string) ([]models.Price, error) {
	q := s.db.WithContext(ctx)
	if typ != "" {
		t, err := parsePriceType(typ)
		if err != nil {
			return nil, err
		}
		q = q.Where("type = ?", t)
	}

	var out []models.Price
	if err := q.Order("amount_cents ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	return out, nil
}

func (s *Service) GetPrice(ctx context.Context, id int) (models.Price, error) {
	var p models.Price
	pid, err := validID(id, "price")
	if err != nil {
		return p, err
	}
	err = load(s.db.WithContext(ctx), &p, pid, "price")
	return p, err
}

func (s *Service) CreatePrice(ctx context.Context, actor access.Actor, in PriceInput) (models.Price, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Price{}, err
	}
	if err := required("label", in.Label); err != nil {
		return models.Price{}, err
	}
	t, err := parsePriceType(in.Type)
	if err != nil {
		return models.Price{}, err
	}
	if err := validAmount(in.Amount); err != nil {
		return models.Price{}, err
	}
	if in.DurationDays == 0 {
		in.DurationDays = 1
	}
	if err := validDuration(in.DurationDays); err != nil {
		return models.Price{}, err
	}

	p := models.Price{Label: in.Label, Type: t, Amount: in.Amount, DurationDays: in.DurationDays}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return p, apperr.FromStore(err, "price")
	}
	return p, nil
}

// UpdatePrice changes a tariff. Reservations already made keep the total
// computed when they were created.
func (s *Service) UpdatePrice(ctx context.Context, actor access.Actor, id int, in PricePatch) (models.Price, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Price{}, err
	}
	p, err := s.GetPrice(ctx, id)
	if err != nil {
		return p, err
	}

	changes := map[string]any{}
	if in.Label != nil {
		if err := required("label", *in.Label); err != nil {
			return p, err
		}
		changes["label"] = *in.Label
	}
	if in.Type != nil {
		t, err := parsePriceType(*in.Type)
		if err != nil {
			return p, err
		}
		changes["type"] = t
	}
	if in.Amount != nil {
		if err := validAmount(*in.Amount); err != nil {
			return p, err
		}
		changes["amount_cents"] = int64(*in.Amount)
	}
	if in.DurationDays != nil {
		if err := validDuration(*in.DurationDays); err != nil {
			return p, err
		}
		changes["duration_days"] = *in.DurationDays
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&p).Updates(changes).Error; err != nil {
			return p, apperr.FromStore(err, "price")
		}
	}
	return s.GetPrice(ctx, id)
}

// DeletePrice removes a tariff no reservation uses.
func (s *Service) DeletePrice(ctx context.Context, actor access.Actor, id int) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	p, err := s.GetPrice(ctx, id)
	if err != nil {
		return "", err
	}
	n, err := s.references(ctx, &models.Reservation{}, "price_id", p.ID)
	if err != nil {
		return "", fmt.Errorf("count reservations: %w", err)
	}
	if n > 0 {
		return "", apperr.InvalidRequest("cannot delete price %d: %d reservation(s) use it", p.ID, n)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Price{}, p.ID).Error; err != nil {
		return "", apperr.FromStore(err, "price")
	}
	return fmt.Sprintf("Price %d deleted", p.ID), nil
}
