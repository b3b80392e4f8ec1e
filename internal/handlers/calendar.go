package handlers

import (
	"context"

	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/catalog"
	"github.com/AurelieMous/projet-zombieland/internal/models"
)

// Prices

type ListPricesRequest struct {
	Type string `query:"type" enum:"ETUDIANT,ADULTE,GROUPE,PASS_2J" doc:"Only tariffs of this type"`
}

type PriceResponse struct {
	Body models.Price
}

type PriceListResponse struct {
	Body []models.Price
}

type CreatePriceRequest struct {
	Body struct {
		Label        string       `json:"label"`
		Type         string       `json:"type" enum:"ETUDIANT,ADULTE,GROUPE,PASS_2J"`
		Amount       models.Money `json:"amount" doc:"Price of one ticket, in euros"`
		DurationDays int          `json:"duration_days,omitempty" doc:"Days of access, defaults to 1"`
	}
}

type UpdatePriceRequest struct {
	ID   int `path:"id"`
	Body struct {
		Label        *string       `json:"label,omitempty"`
		Type         *string       `json:"type,omitempty" enum:"ETUDIANT,ADULTE,GROUPE,PASS_2J"`
		Amount       *models.Money `json:"amount,omitempty"`
		DurationDays *int          `json:"duration_days,omitempty"`
	}
}

func (h *CatalogHandler) HandleListPrices(ctx context.Context, input *ListPricesRequest) (*PriceListResponse, error) {
	out, err := h.catalog.ListPrices(ctx, input.Type)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &PriceListResponse{Body: out}, nil
}

func (h *CatalogHandler) HandleGetPrice(ctx context.Context, input *IDInput) (*PriceResponse, error) {
	p, err := h.catalog.GetPrice(ctx, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &PriceResponse{Body: p}, nil
}

func (h *CatalogHandler) HandleCreatePrice(ctx context.Context, input *CreatePriceRequest) (*PriceResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.catalog.CreatePrice(ctx, actor, catalog.PriceInput{
		Label:        input.Body.Label,
		Type:         input.Body.Type,
		Amount:       input.Body.Amount,
		DurationDays: input.Body.DurationDays,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &PriceResponse{Body: p}, nil
}

func (h *CatalogHandler) HandleUpdatePrice(ctx context.Context, input *UpdatePriceRequest) (*PriceResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.catalog.UpdatePrice(ctx, actor, input.ID, catalog.PricePatch{
		Label:        input.Body.Label,
		Type:         input.Body.Type,
		Amount:       input.Body.Amount,
		DurationDays: input.Body.DurationDays,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &PriceResponse{Body: p}, nil
}

func (h *CatalogHandler) HandleDeletePrice(ctx context.Context, input *IDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.catalog.DeletePrice(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}

// Park dates

type ListParkDatesRequest struct {
	From   string `query:"from" doc:"First day, YYYY-MM-DD"`
	To     string `query:"to" doc:"Last day, YYYY-MM-DD"`
	IsOpen string `query:"is_open" enum:"true,false" doc:"Only open or only closed days"`
}

type ParkDateResponse struct {
	Body models.ParkDate
}

type ParkDateListResponse struct {
	Body []models.ParkDate
}

type CreateParkDateRequest struct {
	Body struct {
		Day    string  `json:"day" doc:"Calendar day, YYYY-MM-DD"`
		IsOpen bool    `json:"is_open"`
		Notes  *string `json:"notes,omitempty"`
	}
}

type UpdateParkDateRequest struct {
	ID   int `path:"id"`
	Body struct {
		IsOpen *bool   `json:"is_open,omitempty"`
		Notes  *string `json:"notes,omitempty"`
	}
}

func (h *CatalogHandler) HandleListParkDates(ctx context.Context, input *ListParkDatesRequest) (*ParkDateListResponse, error) {
	f := catalog.ParkDateFilter{From: input.From, To: input.To}
	if input.IsOpen != "" {
		open := input.IsOpen == "true"
		f.IsOpen = &open
	}
	out, err := h.catalog.ListParkDates(ctx, f)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ParkDateListResponse{Body: out}, nil
}

func (h *CatalogHandler) HandleGetParkDate(ctx context.Context, input *IDInput) (*ParkDateResponse, error) {
	pd, err := h.catalog.GetParkDate(ctx, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ParkDateResponse{Body: pd}, nil
}

func (h *CatalogHandler) HandleCreateParkDate(ctx context.Context, input *CreateParkDateRequest) (*ParkDateResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	pd, err := h.catalog.CreateParkDate(ctx, actor, catalog.ParkDateInput{
		Day:    input.Body.Day,
		IsOpen: input.Body.IsOpen,
		Notes:  input.Body.Notes,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ParkDateResponse{Body: pd}, nil
}

func (h *CatalogHandler) HandleUpdateParkDate(ctx context.Context, input *UpdateParkDateRequest) (*ParkDateResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	pd, err := h.catalog.UpdateParkDate(ctx, actor, input.ID, catalog.ParkDatePatch{
		IsOpen: input.Body.IsOpen,
		Notes:  input.Body.Notes,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ParkDateResponse{Body: pd}, nil
}

func (h *CatalogHandler) HandleDeleteParkDate(ctx context.Context, input *IDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.catalog.DeleteParkDate(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}
