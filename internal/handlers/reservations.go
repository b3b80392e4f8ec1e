package handlers

import (
	"context"

	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/reservation"
	"github.com/danielgtaylor/huma/v2"
)

type ReservationHandler struct {
	engine *reservation.Engine
}

func NewReservationHandler(engine *reservation.Engine) *ReservationHandler {
	return &ReservationHandler{engine: engine}
}

func (h *ReservationHandler) Register(api huma.API) {
	tag := tagged("Reservations")
	huma.Post(api, "/reservations", h.HandleCreate, tag, created, withActor(api))
	huma.Get(api, "/reservations", h.HandleListAll, tag, withAdmin(api))
	huma.Get(api, "/reservations/me", h.HandleListMine, tag, withActor(api))
	huma.Get(api, "/reservations/{id}", h.HandleGet, tag, withActor(api))
	huma.Patch(api, "/reservations/{id}/status", h.HandleUpdateStatus, tag, withAdmin(api))
	huma.Delete(api, "/reservations/{id}", h.HandleCancel, tag, withActor(api))
}

type ReservationIDInput struct {
	ID int `path:"id" doc:"Reservation ID"`
}

type CreateReservationRequest struct {
	Body struct {
		DateID       uint `json:"date_id" doc:"Park date of the visit"`
		PriceID      uint `json:"price_id" doc:"Tariff applied to every ticket"`
		TicketsCount int  `json:"tickets_count" maximum:"10000" doc:"Number of tickets, 1 to 10000"`
	}
}

type ReservationResponse struct {
	Body reservation.View
}

type ReservationListResponse struct {
	Body []reservation.View
}

func (h *ReservationHandler) HandleCreate(ctx context.Context, input *CreateReservationRequest) (*ReservationResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	v, err := h.engine.Create(ctx, actor, reservation.CreateInput{
		DateID:       input.Body.DateID,
		PriceID:      input.Body.PriceID,
		TicketsCount: input.Body.TicketsCount,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ReservationResponse{Body: v}, nil
}

func (h *ReservationHandler) HandleListMine(ctx context.Context, input *struct{}) (*ReservationListResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	vs, err := h.engine.ListMine(ctx, actor)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ReservationListResponse{Body: vs}, nil
}

func (h *ReservationHandler) HandleListAll(ctx context.Context, input *struct{}) (*ReservationListResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	vs, err := h.engine.ListAll(ctx, actor)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ReservationListResponse{Body: vs}, nil
}

func (h *ReservationHandler) HandleGet(ctx context.Context, input *ReservationIDInput) (*ReservationResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	v, err := h.engine.Get(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ReservationResponse{Body: v}, nil
}

type UpdateStatusRequest struct {
	ID   int `path:"id" doc:"Reservation ID"`
	Body struct {
		Status string `json:"status" doc:"PENDING, CONFIRMED or CANCELLED"`
	}
}

func (h *ReservationHandler) HandleUpdateStatus(ctx context.Context, input *UpdateStatusRequest) (*ReservationResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	v, err := h.engine.UpdateStatus(ctx, actor, input.ID, input.Body.Status)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ReservationResponse{Body: v}, nil
}

func (h *ReservationHandler) HandleCancel(ctx context.Context, input *ReservationIDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.engine.Cancel(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}
