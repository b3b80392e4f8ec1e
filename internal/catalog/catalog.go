// Package catalog manages the park's reference data: categories,
// attractions and their images, activities, tariffs and the calendar.
//
// Reads are public. Every mutation takes the acting identity and requires
// the ADMIN role.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/database"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func requireAdmin(actor access.Actor) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

func validID(id int, what string) (uint, error) {
	if id <= 0 {
		return 0, apperr.InvalidRequest("invalid %s id %d", what, id)
	}
	return uint(id), nil
}

// load fetches one row by id into dest, reporting a missing row as NotFound.
func load(db *gorm.DB, dest any, id uint, what string) error {
	if err := db.First(dest, id).Error; err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("%s %d not found", what, id)
		}
		return fmt.Errorf("load %s %d: %w", what, id, err)
	}
	return nil
}

// exists reports a NotFound error unless a row of model with id exists.
func (s *Service) exists(ctx context.Context, model any, id uint, what string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s %d: %w", what, id, err)
	}
	if count == 0 {
		return apperr.NotFound("%s %d not found", what, id)
	}
	return nil
}

// references counts the rows of model whose column points at id.
func (s *Service) references(ctx context.Context, model any, column string, id uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(model).Where(column+" = ?", id).Count(&count).Error
	return count, err
}

// search filters q on a case-insensitive substring of name or description.
func search(q *gorm.DB, term string) *gorm.DB {
	if term == "" {
		return q
	}
	pattern := database.Contains(term)
	return q.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.InvalidRequest("%s is required", field)
	}
	return nil
}
