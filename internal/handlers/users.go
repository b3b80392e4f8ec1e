package handlers

import (
	"context"

	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/users"
	"github.com/danielgtaylor/huma/v2"
)

type UserHandler struct {
	users *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{users: svc}
}

func (h *UserHandler) Register(api huma.API) {
	tag := tagged("Users")
	huma.Get(api, "/users", h.HandleList, tag, withAdmin(api))
	huma.Get(api, "/users/{id}", h.HandleGet, tag, withAdmin(api))
	huma.Patch(api, "/users/{id}", h.HandleUpdate, tag, withAdmin(api))
	huma.Delete(api, "/users/{id}", h.HandleDelete, tag, withAdmin(api))
	huma.Get(api, "/users/{id}/reservations", h.HandleReservations, tag, withAdmin(api))
}

type UserIDInput struct {
	ID int `path:"id" doc:"User ID"`
}

type ListUsersRequest struct {
	Page   int    `query:"page" minimum:"1" default:"1" doc:"Page number"`
	Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Users per page"`
	Search string `query:"search" doc:"Substring of the email or display name"`
	Role   string `query:"role" enum:"ADMIN,CLIENT" doc:"Exact role"`
	Email  string `query:"email" doc:"Substring of the email"`
}

type UserPageResponse struct {
	Body users.Page
}

type UserSummaryResponse struct {
	Body users.Summary
}

func (h *UserHandler) HandleList(ctx context.Context, input *ListUsersRequest) (*UserPageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	page, err := h.users.List(ctx, actor, users.ListParams{
		Page:   input.Page,
		Limit:  input.Limit,
		Search: input.Search,
		Role:   input.Role,
		Email:  input.Email,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &UserPageResponse{Body: page}, nil
}

func (h *UserHandler) HandleGet(ctx context.Context, input *UserIDInput) (*UserSummaryResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.users.Get(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &UserSummaryResponse{Body: u}, nil
}

type UpdateUserRequest struct {
	ID   int `path:"id" doc:"User ID"`
	Body struct {
		DisplayName *string `json:"display_name,omitempty" doc:"New display name"`
		Email       *string `json:"email,omitempty" doc:"New email"`
		Role        *string `json:"role,omitempty" enum:"ADMIN,CLIENT" doc:"New role"`
		IsActive    *bool   `json:"is_active,omitempty" doc:"Whether the account can sign in"`
	}
}

func (h *UserHandler) HandleUpdate(ctx context.Context, input *UpdateUserRequest) (*UserSummaryResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.users.Update(ctx, actor, input.ID, users.Update{
		DisplayName: input.Body.DisplayName,
		Email:       input.Body.Email,
		Role:        input.Body.Role,
		IsActive:    input.Body.IsActive,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &UserSummaryResponse{Body: u}, nil
}

func (h *UserHandler) HandleDelete(ctx context.Context, input *UserIDInput) (*MessageResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.users.Remove(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return message(msg), nil
}

func (h *UserHandler) HandleReservations(ctx context.Context, input *UserIDInput) (*ReservationListResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	vs, err := h.users.Reservations(ctx, actor, input.ID)
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &ReservationListResponse{Body: vs}, nil
}
