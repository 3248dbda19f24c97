// Package alerting persists threshold violations with deduplication and
// fans new ones out as push notifications.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/model"
	"plantbox-backend/internal/notification"
	"plantbox-backend/internal/store"
)

// Service deduplicates alert intents and owns the alert read/mutation
// operations. The notification pool is optional; with a nil pool alerts
// are persisted but no pushes go out.
type Service struct {
	store store.Store
	pool  *notification.Pool
}

// NewService creates the alerting service.
func NewService(s store.Store, pool *notification.Pool) *Service {
	return &Service{store: s, pool: pool}
}

// Submit persists an alert intent unless an identical unresolved alert
// already exists for the box. Returns the alert and whether a new row was
// created. Only a newly created alert triggers a push notification, so
// repeated violations never spam subscribers.
func (s *Service) Submit(ctx context.Context, boxID int64, intent engine.AlertIntent) (bool, model.Alert, error) {
	if _, err := s.store.GetBox(ctx, boxID); err != nil {
		return false, model.Alert{}, err
	}

	existing, err := s.store.FindUnresolvedAlert(ctx, boxID, intent.Type, intent.Message)
	if err == nil {
		return false, existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, model.Alert{}, fmt.Errorf("dedup lookup: %w", err)
	}

	alert := model.Alert{
		BoxID:    boxID,
		Type:     intent.Type,
		Message:  intent.Message,
		Priority: intent.Priority,
		Resolved: false,
	}
	if err := s.store.InsertAlert(ctx, &alert); err != nil {
		return false, model.Alert{}, err
	}

	if s.pool != nil {
		s.pool.Dispatch(notification.Job{
			BoxID: boxID,
			Title: "Alert: " + intent.Type,
			Body:  intent.Message,
			Data: map[string]string{
				"boxId":    strconv.FormatInt(boxID, 10),
				"priority": intent.Priority,
				"alertId":  strconv.FormatInt(alert.ID, 10),
			},
		})
	}

	return true, alert, nil
}

// Active returns the box's unresolved alerts, highest priority first, most
// recent first within a priority.
func (s *Service) Active(ctx context.Context, boxID int64) ([]model.Alert, error) {
	if _, err := s.store.GetBox(ctx, boxID); err != nil {
		return nil, err
	}
	return s.store.ActiveAlerts(ctx, boxID)
}

// History returns every alert for the box, resolved or not, most recent first.
func (s *Service) History(ctx context.Context, boxID int64) ([]model.Alert, error) {
	if _, err := s.store.GetBox(ctx, boxID); err != nil {
		return nil, err
	}
	return s.store.AllAlerts(ctx, boxID)
}

// Resolve marks one alert resolved.
func (s *Service) Resolve(ctx context.Context, id int64) (model.Alert, error) {
	return s.store.ResolveAlert(ctx, id)
}

// ResolveAll marks every unresolved alert of a box resolved and reports how
// many rows changed.
func (s *Service) ResolveAll(ctx context.Context, boxID int64) (int64, error) {
	if _, err := s.store.GetBox(ctx, boxID); err != nil {
		return 0, err
	}
	return s.store.ResolveAllAlerts(ctx, boxID)
}

// Delete removes one alert permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteAlert(ctx, id)
}
