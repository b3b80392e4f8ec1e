package catalog

import (
	"context"
	"fmt"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"gorm.io/gorm"
)

type AttractionFilter struct {
	Search     string
	CategoryID uint
}

type AttractionInput struct {
	Name        string
	Description string
	CategoryID  uint
	Images      []ImageInput
}

type AttractionPatch struct {
	Name        *string
	Description *string
	CategoryID  *uint
}

type ImageInput struct {
	URL     string
	AltText string
}

func (s *Service) ListAttractions(ctx context.Context, f AttractionFilter) ([]models.Attraction, error) {
	q := search(s.db.WithContext(ctx), f.Search)
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}

	var out []models.Attraction
	if err := q.Preload("Category").Preload("Images").Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	return out, nil
}

func (s *Service) GetAttraction(ctx context.Context, id int) (models.Attraction, error) {
	var a models.Attraction
	aid, err := validID(id, "attraction")
	if err != nil {
		return a, err
	}
	db := s.db.WithContext(ctx).Preload("Category").Preload("Images").Preload("Activities")
	err = load(db, &a, aid, "attraction")
	return a, err
}

func (s *Service) CreateAttraction(ctx context.Context, actor access.Actor, in AttractionInput) (models.Attraction, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Attraction{}, err
	}
	if err := required("name", in.Name); err != nil {
		return models.Attraction{}, err
	}
	if in.CategoryID == 0 {
		return models.Attraction{}, apperr.InvalidRequest("category_id is required")
	}
	for _, img := range in.Images {
		if err := required("image url", img.URL); err != nil {
			return models.Attraction{}, err
		}
	}
	if err := s.exists(ctx, &models.Category{}, in.CategoryID, "category"); err != nil {
		return models.Attraction{}, err
	}

	a := models.Attraction{Name: in.Name, Description: in.Description, CategoryID: in.CategoryID}
	for _, img := range in.Images {
		a.Images = append(a.Images, models.AttractionImage{URL: img.URL, AltText: img.AltText})
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return a, apperr.FromStore(err, "attraction")
	}
	return s.GetAttraction(ctx, int(a.ID))
}

func (s *Service) UpdateAttraction(ctx context.Context, actor access.Actor, id int, in AttractionPatch) (models.Attraction, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Attraction{}, err
	}
	a, err := s.GetAttraction(ctx, id)
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
		changes["description"] = *in.Description
	}
	if in.CategoryID != nil {
		if err := s.exists(ctx, &models.Category{}, *in.CategoryID, "category"); err != nil {
			return a, err
		}
		changes["category_id"] = *in.CategoryID
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Attraction{}).Where("id = ?", a.ID).Updates(changes).Error; err != nil {
			return a, apperr.FromStore(err, "attraction")
		}
	}
	return s.GetAttraction(ctx, id)
}

// DeleteAttraction removes an attraction with its images. Activities linked
// to it are kept and detached.
func (s *Service) DeleteAttraction(ctx context.Context, actor access.Actor, id int) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	aid, err := validID(id, "attraction")
	if err != nil {
		return "", err
	}
	if err := s.exists(ctx, &models.Attraction{}, aid, "attraction"); err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attraction_id = ?", aid).Delete(&models.AttractionImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Activity{}).Where("attraction_id = ?", aid).Update("attraction_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Attraction{}, aid).Error
	})
	if err != nil {
		return "", fmt.Errorf("delete attraction %d: %w", aid, err)
	}
	return fmt.Sprintf("Attraction %d deleted", aid), nil
}

func (s *Service) AddImage(ctx context.Context, actor access.Actor, attractionID int, in ImageInput) (models.AttractionImage, error) {
	if err := requireAdmin(actor); err != nil {
		return models.AttractionImage{}, err
	}
	aid, err := validID(attractionID, "attraction")
	if err != nil {
		return models.AttractionImage{}, err
	}
	if err := required("url", in.URL); err != nil {
		return models.AttractionImage{}, err
	}
	if err := s.exists(ctx, &models.Attraction{}, aid, "attraction"); err != nil {
		return models.AttractionImage{}, err
	}

	img := models.AttractionImage{AttractionID: aid, URL: in.URL, AltText: in.AltText}
	if err := s.db.WithContext(ctx).Create(&img).Error; err != nil {
		return img, apperr.FromStore(err, "image")
	}
	return img, nil
}

func (s *Service) DeleteImage(ctx context.Context, actor access.Actor, attractionID, imageID int) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	aid, err := validID(attractionID, "attraction")
	if err != nil {
		return err
	}
	iid, err := validID(imageID, "image")
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("id = ? AND attraction_id = ?", iid, aid).Delete(&models.AttractionImage{})
	if res.Error != nil {
		return fmt.Errorf("delete image %d: %w", iid, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("image %d not found on attraction %d", iid, aid)
	}
	return nil
}
