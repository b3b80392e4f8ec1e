// Package users is the admin side of account management.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/auth"
	"github.com/AurelieMous/projet-zombieland/internal/database"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/AurelieMous/projet-zombieland/internal/reservation"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Service struct {
	db     *gorm.DB
	engine *reservation.Engine
}

func NewService(db *gorm.DB, engine *reservation.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// Summary is a user as listed to admins.
type Summary struct {
	models.User
	ReservationsCount int64 `json:"reservations_count"`
}

type ListParams struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Email  string
}

type Page struct {
	Data  []Summary `json:"data"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type Update struct {
	DisplayName *string
	Email       *string
	Role        *string
	IsActive    *bool
}

func requireAdmin(actor access.Actor) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

func (s *Service) find(ctx context.Context, id int) (models.User, error) {
	var user models.User
	if id <= 0 {
		return user, apperr.InvalidRequest("invalid user id %d", id)
	}
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return user, apperr.NotFound("user %d not found", id)
		}
		return user, fmt.Errorf("load user %d: %w", id, err)
	}
	return user, nil
}

// counts returns the number of reservations owned by each of the given users.
func (s *Service) counts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		UserID uint
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("user_id, COUNT(*) AS total").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	for _, r := range rows {
		out[r.UserID] = r.Total
	}
	return out, nil
}

func (s *Service) summarize(ctx context.Context, users []models.User) ([]Summary, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.counts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(users))
	for _, u := range users {
		out = append(out, Summary{User: u, ReservationsCount: counts[u.ID]})
	}
	return out, nil
}

// List returns one page of users, newest first.
func (s *Service) List(ctx context.Context, actor access.Actor, p ListParams) (Page, error) {
	if err := requireAdmin(actor); err != nil {
		return Page{}, err
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		return Page{}, apperr.InvalidRequest("page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return Page{}, apperr.InvalidRequest("limit must be between 1 and %d", MaxLimit)
	}

	q := s.db.WithContext(ctx).Model(&models.User{})
	if p.Search != "" {
		pattern := database.Contains(p.Search)
		q = q.Where("LOWER(display_name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if p.Role != "" {
		role, ok := models.ParseRole(p.Role)
		if !ok {
			return Page{}, apperr.InvalidRequest("invalid role %q", p.Role)
		}
		q = q.Where("role = ?", role)
	}
	if p.Email != "" {
		q = q.Where("LOWER(email) LIKE ? ESCAPE '!'", database.Contains(p.Email))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	err := q.Order("created_at DESC, id DESC").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return Page{}, fmt.Errorf("list users: %w", err)
	}

	data, err := s.summarize(ctx, users)
	if err != nil {
		return Page{}, err
	}
	return Page{Data: data, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *Service) Get(ctx context.Context, actor access.Actor, id int) (Summary, error) {
	if err := requireAdmin(actor); err != nil {
		return Summary{}, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	out, err := s.summarize(ctx, []models.User{user})
	if err != nil {
		return Summary{}, err
	}
	return out[0], nil
}

func (s *Service) taken(ctx context.Context, column, value string, self uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, self).
		Count(&count).Error
	return count > 0, err
}

// Update changes the given fields of a user. Email and display name stay
// unique across accounts.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int, in Update) (Summary, error) {
	if err := requireAdmin(actor); err != nil {
		return Summary{}, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return Summary{}, err
	}

	changes := map[string]any{}
	if in.Email != nil && *in.Email != user.Email {
		email := strings.TrimSpace(*in.Email)
		if err := auth.ValidateEmail(email); err != nil {
			return Summary{}, err
		}
		taken, err := s.taken(ctx, "email", email, user.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return Summary{}, apperr.Conflict("email is already used by another user")
		}
		changes["email"] = email
	}
	if in.DisplayName != nil && *in.DisplayName != user.DisplayName {
		name := strings.TrimSpace(*in.DisplayName)
		if err := auth.ValidateDisplayName(name); err != nil {
			return Summary{}, err
		}
		taken, err := s.taken(ctx, "display_name", name, user.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("check display name: %w", err)
		}
		if taken {
			return Summary{}, apperr.Conflict("display name is already used by another user")
		}
		changes["display_name"] = name
	}
	if in.Role != nil {
		role, ok := models.ParseRole(*in.Role)
		if !ok {
			return Summary{}, apperr.InvalidRequest("invalid role %q", *in.Role)
		}
		changes["role"] = role
	}
	if in.IsActive != nil {
		changes["is_active"] = *in.IsActive
	}

	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(changes).Error; err != nil {
			return Summary{}, apperr.FromStore(err, "user")
		}
	}
	return s.Get(ctx, actor, id)
}

// Remove deletes a user who owns no reservation.
func (s *Service) Remove(ctx context.Context, actor access.Actor, id int) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}

	counts, err := s.counts(ctx, []uint{user.ID})
	if err != nil {
		return "", err
	}
	if n := counts[user.ID]; n > 0 {
		return "", apperr.InvalidRequest("cannot delete this user: %d reservation(s) attached", n)
	}

	if err := s.db.WithContext(ctx).Delete(&models.User{}, user.ID).Error; err != nil {
		return "", apperr.FromStore(err, "user")
	}
	return fmt.Sprintf("User %s deleted", user.DisplayName), nil
}

// Reservations lists the reservations owned by a user, newest first.
func (s *Service) Reservations(ctx context.Context, actor access.Actor, id int) ([]reservation.View, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.ListByUser(ctx, actor, user.ID)
}
