package catalog

import (
	"context"
	"fmt"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
)

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

func (s *Service) ListCategories(ctx context.Context, term string) ([]models.Category, error) {
	var out []models.Category
	if err := search(s.db.WithContext(ctx), term).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *Service) GetCategory(ctx context.Context, id int) (models.Category, error) {
	var c models.Category
	cid, err := validID(id, "category")
	if err != nil {
		return c, err
	}
	err = load(s.db.WithContext(ctx), &c, cid, "category")
	return c, err
}

func (s *Service) CreateCategory(ctx context.Context, actor access.Actor, in CategoryInput) (models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Category{}, err
	}
	if err := required("name", in.Name); err != nil {
		return models.Category{}, err
	}

	c := models.Category{Name: in.Name, Description: in.Description}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return c, apperr.FromStore(err, "category")
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, actor access.Actor, id int, in CategoryPatch) (models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Category{}, err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return c, err
	}

	changes := map[string]any{}
	if in.Name != nil {
		if err := required("name", *in.Name); err != nil {
			return c, err
		}
		changes["name"] = *in.Name
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&c).Updates(changes).Error; err != nil {
			return c, apperr.FromStore(err, "category")
		}
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category no attraction or activity belongs to.
func (s *Service) DeleteCategory(ctx context.Context, actor access.Actor, id int) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return "", err
	}

	attractions, err := s.references(ctx, &models.Attraction{}, "category_id", c.ID)
	if err != nil {
		return "", fmt.Errorf("count attractions: %w", err)
	}
	activities, err := s.references(ctx, &models.Activity{}, "category_id", c.ID)
	if err != nil {
		return "", fmt.Errorf("count activities: %w", err)
	}
	if attractions+activities > 0 {
		return "", apperr.InvalidRequest("cannot delete category %d: %d attraction(s) and %d activity(ies) still use it",
			c.ID, attractions, activities)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Category{}, c.ID).Error; err != nil {
		return "", apperr.FromStore(err, "category")
	}
	return fmt.Sprintf("Category %d deleted", c.ID), nil
}
