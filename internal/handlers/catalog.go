package handlers

import (
	"context"

	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/catalog"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

// CatalogHandler serves the park's reference data. Reads are public,
// writes need an admin.
type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

func (h *CatalogHandler) Register(api huma.API) {
	categories := tagged("Categories")
	huma.Get(api, "/categories", h.HandleListCategories, categories)
	huma.Get(api, "/categories/{id}", h.HandleGetCategory, categories)
	huma.Post(api, "/categories", h.HandleCreateCategory, categories, created, withAdmin(api))
	huma.Patch(api, "/categories/{id}", h.HandleUpdateCategory, categories, withAdmin(api))
	huma.Delete(api, "/categories/{id}", h.HandleDeleteCategory, categories, withAdmin(api))

	attractions := tagged("Attractions")
	huma.Get(api, "/attractions", h.HandleListAttractions, attractions)
	huma.Get(api, "/attractions/{id}", h.HandleGetAttraction, attractions)
	huma.Post(api, "/attractions", h.HandleCreateAttraction, attractions, created, withAdmin(api))
	huma.Patch(api, "/attractions/{id}", h.HandleUpdateAttraction, attractions, withAdmin(api))
	huma.Delete(api, "/attractions/{id}", h.HandleDeleteAttraction, attractions, withAdmin(api))
	huma.Post(api, "/attractions/{id}/images", h.HandleAddImage, attractions, created, withAdmin(api))
	huma.Delete(api, "/attractions/{id}/images/{imageId}", h.HandleDeleteImage, attractions, withAdmin(api))

	activities := tagged("Activities")
	huma.Get(api, "/activities", h.HandleListActivities, activities)
	huma.Get(api, "/activities/{id}", h.HandleGetActivity, activities)
	huma.Post(api, "/activities", h.HandleCreateActivity, activities, created, withAdmin(api))
	huma.Patch(api, "/activities/{id}", h.HandleUpdateActivity, activities, withAdmin(api))
	huma.Delete(api, "/activities/{id}", h.HandleDeleteActivity, activities, withAdmin(api))

	prices := tagged("Prices")
	huma.Get(api, "/prices", h.HandleListPrices, prices)
	huma.Get(api, "/prices/{id}", h.HandleGetPrice, prices)
	huma.Post(api, "/prices", h.HandleCreatePrice, prices, created, withAdmin(api))
	huma.Patch(api, "/prices/{id}", h.HandleUpdatePrice, prices, withAdmin(api))
	huma.Delete(api, "/prices/{id}", h.HandleDeletePrice, prices, withAdmin(api))

	parkDates := tagged("Park dates")
	huma.Get(api, "/park-dates", h.HandleListParkDates, parkDates)
	huma.Get(api, "/park-dates/{id}", h.HandleGetParkDate, parkDates)
	huma.Post(api, "/park-dates", h.HandleCreateParkDate, parkDates, created, withAdmin(api))
	huma.Patch(api, "/park-dates/{id}", h.HandleUpdateParkDate, parkDates, withAdmin(api))
	huma.Delete(api, "/park-dates/{id}", h.HandleDeleteParkDate, parkDates, withAdmin(api))
}

type IDInput struct {
	ID int `path:"id"`
}

type SearchInput struct {
	Search string `query:"search" doc:"Substring of the name or description"`
}

// Categories

type CategoryResponse struct {
	Body models.Category
}

type CategoryListResponse struct {
	Body []models.Category
}

type CategoryRequest struct {
	Body struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
}

type UpdateCategoryRequest struct {
	ID   int `path:"id"`
	Body struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
	}
}

func (h *CatalogHandler) HandleListCategories(ctx context.Context, input *SearchInput) (*CategoryListResponse, error) {
	out, err := h.catalog.ListCategories(ctx, input.Search)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &CategoryListResponse{Body: out}, nil
}

func (h *CatalogHandler) HandleGetCategory(ctx context.Context, input *IDInput) (*CategoryResponse, error) {
	c, err := h.catalog.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &CategoryResponse{Body: c}, nil
}

func (h *CatalogHandler) HandleCreateCategory(ctx context.Context, input *CategoryRequest) (*CategoryResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.catalog.CreateCategory(ctx, actor, catalog.CategoryInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &CategoryResponse{Body: c}, nil
}

func (h *CatalogHandler) HandleUpdateCategory(ctx context.Context, input *UpdateCategoryRequest) (*CategoryResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.catalog.UpdateCategory(ctx, actor, input.ID, catalog.CategoryPatch{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &CategoryResponse{Body: c}, nil
}

func (h *CatalogHandler) HandleDeleteCategory(ctx context.Context, input *IDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.catalog.DeleteCategory(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}

// Attractions

type ListAttractionsRequest struct {
	Search     string `query:"search" doc:"Substring of the name or description"`
	CategoryID uint   `query:"category_id" doc:"Only attractions of this category"`
}

type AttractionResponse struct {
	Body models.Attraction
}

type AttractionListResponse struct {
	Body []models.Attraction
}

type ImageBody struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

type CreateAttractionRequest struct {
	Body struct {
		Name        string      `json:"name"`
		Description string      `json:"description,omitempty"`
		CategoryID  uint        `json:"category_id"`
		Images      []ImageBody `json:"images,omitempty"`
	}
}

type UpdateAttractionRequest struct {
	ID   int `path:"id"`
	Body struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		CategoryID  *uint   `json:"category_id,omitempty"`
	}
}

type AddImageRequest struct {
	ID   int `path:"id"`
	Body ImageBody
}

type ImageResponse struct {
	Body models.AttractionImage
}

type DeleteImageRequest struct {
	ID      int `path:"id"`
	ImageID int `path:"imageId"`
}

func (h *CatalogHandler) HandleListAttractions(ctx context.Context, input *ListAttractionsRequest) (*AttractionListResponse, error) {
	out, err := h.catalog.ListAttractions(ctx, catalog.AttractionFilter{Search: input.Search, CategoryID: input.CategoryID})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &AttractionListResponse{Body: out}, nil
}

func (h *CatalogHandler) HandleGetAttraction(ctx context.Context, input *IDInput) (*AttractionResponse, error) {
	a, err := h.catalog.GetAttraction(ctx, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &AttractionResponse{Body: a}, nil
}

func (h *CatalogHandler) HandleCreateAttraction(ctx context.Context, input *CreateAttractionRequest) (*AttractionResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	in := catalog.AttractionInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		CategoryID:  input.Body.CategoryID,
	}
	for _, img := range input.Body.Images {
		in.Images = append(in.Images, catalog.ImageInput{URL: img.URL, AltText: img.AltText})
	}
	a, err := h.catalog.CreateAttraction(ctx, actor, in)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &AttractionResponse{Body: a}, nil
}

func (h *CatalogHandler) HandleUpdateAttraction(ctx context.Context, input *UpdateAttractionRequest) (*AttractionResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.catalog.UpdateAttraction(ctx, actor, input.ID, catalog.AttractionPatch{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		CategoryID:  input.Body.CategoryID,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &AttractionResponse{Body: a}, nil
}

func (h *CatalogHandler) HandleDeleteAttraction(ctx context.Context, input *IDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.catalog.DeleteAttraction(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}

func (h *CatalogHandler) HandleAddImage(ctx context.Context, input *AddImageRequest) (*ImageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	img, err := h.catalog.AddImage(ctx, actor, input.ID, catalog.ImageInput{URL: input.Body.URL, AltText: input.Body.AltText})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ImageResponse{Body: img}, nil
}

func (h *CatalogHandler) HandleDeleteImage(ctx context.Context, input *DeleteImageRequest) (*struct{}, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.catalog.DeleteImage(ctx, actor, input.ID, input.ImageID); err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return nil, nil
}

// Activities

type ListActivitiesRequest struct {
	Search       string `query:"search" doc:"Substring of the name or description"`
	CategoryID   uint   `query:"category_id" doc:"Only activities of this category"`
	AttractionID uint   `query:"attraction_id" doc:"Only activities linked to this attraction"`
}

type ActivityResponse struct {
	Body models.Activity
}

type ActivityListResponse struct {
	Body []models.Activity
}

type CreateActivityRequest struct {
	Body struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		CategoryID   uint   `json:"category_id"`
		AttractionID *uint  `json:"attraction_id,omitempty"`
	}
}

type UpdateActivityRequest struct {
	ID   int `path:"id"`
	Body struct {
		Name         *string `json:"name,omitempty"`
		Description  *string `json:"description,omitempty"`
		CategoryID   *uint   `json:"category_id,omitempty"`
		AttractionID *uint   `json:"attraction_id,omitempty" doc:"0 detaches the activity from its attraction"`
	}
}

func (h *CatalogHandler) HandleListActivities(ctx context.Context, input *ListActivitiesRequest) (*ActivityListResponse, error) {
	out, err := h.catalog.ListActivities(ctx, catalog.ActivityFilter{
		Search:       input.Search,
		CategoryID:   input.CategoryID,
		AttractionID: input.AttractionID,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ActivityListResponse{Body: out}, nil
}

func (h *CatalogHandler) HandleGetActivity(ctx context.Context, input *IDInput) (*ActivityResponse, error) {
	a, err := h.catalog.GetActivity(ctx, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ActivityResponse{Body: a}, nil
}

func (h *CatalogHandler) HandleCreateActivity(ctx context.Context, input *CreateActivityRequest) (*ActivityResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.catalog.CreateActivity(ctx, actor, catalog.ActivityInput{
		Name:         input.Body.Name,
		Description:  input.Body.Description,
		CategoryID:   input.Body.CategoryID,
		AttractionID: input.Body.AttractionID,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ActivityResponse{Body: a}, nil
}

func (h *CatalogHandler) HandleUpdateActivity(ctx context.Context, input *UpdateActivityRequest) (*ActivityResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.catalog.UpdateActivity(ctx, actor, input.ID, catalog.ActivityPatch{
		Name:         input.Body.Name,
		Description:  input.Body.Description,
		CategoryID:   input.Body.CategoryID,
		AttractionID: input.Body.AttractionID,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ActivityResponse{Body: a}, nil
}

func (h *CatalogHandler) HandleDeleteActivity(ctx context.Context, input *IDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.catalog.DeleteActivity(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}
