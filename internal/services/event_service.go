package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wedding-backend/internal/models"
	"wedding-backend/internal/repositories"
)

var ErrEventNameRequired = errors.New("event name is required")

type EventService struct {
	repo      *repositories.EventRepository
	publisher Publisher
}

func NewEventService(repo *repositories.EventRepository, publisher Publisher) *EventService {
	return &EventService{repo: repo, publisher: publisher}
}

func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEventNameRequired
	}
	event := &models.Event{
		Name:        strings.TrimSpace(req.Name),
		Date:        req.Date,
		Location:    req.Location,
		Description: req.Description,
		IsPrimary:   req.IsPrimary,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	publish(s.publisher, "events", "insert", event.ID)
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id int) (*models.Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]*models.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventService) Update(ctx context.Context, id int, req *models.UpdateEventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEventNameRequired
	}
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Name = strings.TrimSpace(req.Name)
	event.Date = req.Date
	event.Location = req.Location
	event.Description = req.Description
	event.IsPrimary = req.IsPrimary
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	publish(s.publisher, "events", "update", event.ID)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	publish(s.publisher, "events", "delete", id)
	return nil
}
