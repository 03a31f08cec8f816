package inventory

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// MaxCommentaryLength bounds the free-text note on an owned copy.
const MaxCommentaryLength = 255

// CollectionService manages users and the copies they own.
type CollectionService struct {
	services *Services
}

// NewCollectionService creates a new CollectionService with the given services.
func NewCollectionService(services *Services) *CollectionService {
	return &CollectionService{services: services}
}

// InstanceInput describes an owned copy to record.
type InstanceInput struct {
	CardID     int     `json:"cardId"`
	Language   string  `json:"language"`
	Condition  string  `json:"condition"`
	Commentary *string `json:"commentary,omitempty"`
}

// CreateUser registers a user by name.
func (s *CollectionService) CreateUser(ctx context.Context, username string) (*UserView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}

	user := &models.User{Username: username}
	if err := s.services.Storage.CreateUser(ctx, user); err != nil {
		return nil, wrap("failed to create user", err)
	}
	return &UserView{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}, nil
}

// DeleteUser removes a user and all of their owned copies.
func (s *CollectionService) DeleteUser(ctx context.Context, id int) error {
	if err := s.services.Storage.DeleteUser(ctx, id); err != nil {
		return wrap("failed to delete user", err)
	}
	return nil
}

// AddInstance records one owned copy of a card for a user.
func (s *CollectionService) AddInstance(ctx context.Context, userID int, input InstanceInput) (*InstanceView, error) {
	language := models.Language(strings.ToUpper(strings.TrimSpace(input.Language)))
	if !language.Valid() {
		return nil, invalid("unknown language " + input.Language)
	}
	condition := models.Condition(strings.ToUpper(strings.TrimSpace(input.Condition)))
	if !condition.Valid() {
		return nil, invalid("unknown condition " + input.Condition)
	}

	commentary := input.Commentary
	if commentary != nil {
		trimmed := strings.TrimSpace(*commentary)
		if utf8.RuneCountInString(trimmed) > MaxCommentaryLength {
			return nil, invalid("commentary is too long")
		}
		commentary = lo.Ternary(trimmed == "", nil, &trimmed)
	}

	instance := &models.CardInstance{
		UserID:     userID,
		CardID:     input.CardID,
		Language:   language,
		Condition:  condition,
		Commentary: commentary,
	}
	if err := s.services.Storage.AddCardInstance(ctx, instance); err != nil {
		return nil, wrap("failed to add card instance", err)
	}

	stored, err := s.services.Storage.GetCardInstance(ctx, instance.ID)
	if err != nil {
		return nil, wrap("failed to load card instance", err)
	}
	return newInstanceView(stored), nil
}

// ListInstances returns a user's owned copies ordered by edition and number.
func (s *CollectionService) ListInstances(ctx context.Context, userID int) ([]*InstanceView, error) {
	if _, err := s.services.Storage.GetUser(ctx, userID); err != nil {
		return nil, wrap("user", err)
	}

	instances, err := s.services.Storage.ListCardInstances(ctx, userID)
	if err != nil {
		return nil, wrap("failed to list card instances", err)
	}
	return lo.Map(instances, func(i *models.CardInstance, _ int) *InstanceView {
		return newInstanceView(i)
	}), nil
}

// RemoveInstance deletes one owned copy.
func (s *CollectionService) RemoveInstance(ctx context.Context, id int) error {
	if err := s.services.Storage.DeleteCardInstance(ctx, id); err != nil {
		return wrap("failed to remove card instance", err)
	}
	return nil
}
