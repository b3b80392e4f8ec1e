package catalog

import (
	"context"
	"fmt"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
)

type ActivityFilter struct {
	Search       string
	CategoryID   uint
	AttractionID uint
}

type ActivityInput struct {
	Name         string
	Description  string
	CategoryID   uint
	AttractionID *uint
}

// ActivityPatch holds the fields to change. An AttractionID of 0 detaches
// the activity from its attraction.
type ActivityPatch struct {
	Name         *string
	Description  *string
	CategoryID   *uint
	AttractionID *uint
}

func (s *Service) ListActivities(ctx context.Context, f ActivityFilter) ([]models.Activity, error) {
	q := search(s.db.WithContext(ctx), f.Search)
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AttractionID != 0 {
		q = q.Where("attraction_id = ?", f.AttractionID)
	}

	var out []models.Activity
	if err := q.Preload("Category").Preload("Attraction").Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return out, nil
}

func (s *Service) GetActivity(ctx context.Context, id int) (models.Activity, error) {
	var a models.Activity
	aid, err := validID(id, "activity")
	if err != nil {
		return a, err
	}
	err = load(s.db.WithContext(ctx).Preload("Category").Preload("Attraction"), &a, aid, "activity")
	return a, err
}

func (s *Service) CreateActivity(ctx context.Context, actor access.Actor, in ActivityInput) (models.Activity, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Activity{}, err
	}
	if in.Name == "" || in.Description == "" || in.CategoryID == 0 {
		return models.Activity{}, apperr.InvalidRequest("name, description and category_id are required")
	}
	if err := s.exists(ctx, &models.Category{}, in.CategoryID, "category"); err != nil {
		return models.Activity{}, err
	}
	if in.AttractionID != nil && *in.AttractionID == 0 {
		in.AttractionID = nil
	}
	if in.AttractionID != nil {
		if err := s.exists(ctx, &models.Attraction{}, *in.AttractionID, "attraction"); err != nil {
			return models.Activity{}, err
		}
	}

	a := models.Activity{
		Name:         in.Name,
		Description:  in.Description,
		CategoryID:   in.CategoryID,
		AttractionID: in.AttractionID,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return a, apperr.FromStore(err, "activity")
	}
	return s.GetActivity(ctx, int(a.ID))
}

func (s *Service) UpdateActivity(ctx context.Context, actor access.Actor, id int, in ActivityPatch) (models.Activity, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Activity{}, err
	}
	a, err := s.GetActivity(ctx, id)
	if err != nil {
		return a, err
	}

	changes := map[string]any{}
	if in.Name != nil {
		if err := required("name", *in.Name); err != nil {
			return a, err
		}
		changes["name"] = *in.Name
	}
	if in.Description != nil {
		if err := required("description", *in.Description); err != nil {
			return a, err
		}
		changes["description"] = *in.Description
	}
	if in.CategoryID != nil {
		if err := s.exists(ctx, &models.Category{}, *in.CategoryID, "category"); err != nil {
			return a, err
		}
		changes["category_id"] = *in.CategoryID
	}
	if in.AttractionID != nil {
		if *in.AttractionID == 0 {
			changes["attraction_id"] = nil
		} else {
			if err := s.exists(ctx, &models.Attraction{}, *in.AttractionID, "attraction"); err != nil {
				return a, err
			}
			changes["attraction_id"] = *in.AttractionID
		}
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Activity{}).Where("id = ?", a.ID).Updates(changes).Error; err != nil {
			return a, apperr.FromStore(err, "activity")
		}
	}
	return s.GetActivity(ctx, id)
}

func (s *Service) DeleteActivity(ctx context.Context, actor access.Actor, id int) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	aid, err := validID(id, "activity")
	if err != nil {
		return "", err
	}
	if err := s.exists(ctx, &models.Activity{}, aid, "activity"); err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Activity{}, aid).Error; err != nil {
		return "", apperr.FromStore(err, "activity")
	}
	return fmt.Sprintf("Activity %d deleted", aid), nil
}
