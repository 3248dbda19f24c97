package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/model"
)

// Sentinel errors surfaced by the store. Handlers translate them to HTTP
// status codes; services use errors.Is to distinguish them.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("duplicate unique key")
)

// Store defines the persistence boundary used by the monitoring engine and
// its services. Request/response CRUD handlers use DB() directly.
type Store interface {
	DB() *gorm.DB

	// Boxes
	GetBox(ctx context.Context, id int64) (model.Box, error)
	GetBoxByCode(ctx context.Context, code string) (model.Box, error)
	ListBoxIDs(ctx context.Context) ([]int64, error)
	UpsertBoxState(ctx context.Context, boxID int64, state engine.ActuatorState) error

	// Readings
	SaveReading(ctx context.Context, r *model.Reading) error
	ListReadings(ctx context.Context, boxID int64, since, until time.Time) ([]model.Reading, error)

	// Alerts
	FindUnresolvedAlert(ctx context.Context, boxID int64, alertType, message string) (model.Alert, error)
	InsertAlert(ctx context.Context, a *model.Alert) error
	ActiveAlerts(ctx context.Context, boxID int64) ([]model.Alert, error)
	AllAlerts(ctx context.Context, boxID int64) ([]model.Alert, error)
	ResolveAlert(ctx context.Context, id int64) (model.Alert, error)
	ResolveAllAlerts(ctx context.Context, boxID int64) (int64, error)
	DeleteAlert(ctx context.Context, id int64) error

	// Statistics and history
	UpsertStatistic(ctx context.Context, s *model.Statistic) error
	InsertHistory(ctx context.Context, h *model.History) error
	FirstHistory(ctx context.Context, boxID int64) (model.History, error)
	LastHistory(ctx context.Context, boxID int64) (model.History, error)

	// Push subscriptions
	SubscriptionsForBox(ctx context.Context, boxID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// translate maps gorm errors onto the store's sentinel errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (s *gormStore) GetBox(ctx context.Context, id int64) (model.Box, error) {
	var box model.Box
	if err := s.db.WithContext(ctx).Preload("Plant").First(&box, id).Error; err != nil {
		return model.Box{}, fmt.Errorf("box %d: %w", id, translate(err))
	}
	return box, nil
}

func (s *gormStore) GetBoxByCode(ctx context.Context, code string) (model.Box, error) {
	var box model.Box
	if err := s.db.WithContext(ctx).Preload("Plant").First(&box, "code = ?", code).Error; err != nil {
		return model.Box{}, fmt.Errorf("box code %q: %w", code, translate(err))
	}
	return box, nil
}

func (s *gormStore) ListBoxIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&model.Box{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpsertBoxState persists the full actuator state in one update. Row-level
// atomicity is sufficient here: each box is driven by exactly one device,
// so last-writer-wins per box.
func (s *gormStore) UpsertBoxState(ctx context.Context, boxID int64, state engine.ActuatorState) error {
	res := s.db.WithContext(ctx).Model(&model.Box{}).Where("id = ?", boxID).
		Updates(map[string]any{
			"led_status":         state.LedStatus,
			"pump_status":        state.PumpStatus,
			"watering_count":     state.WateringCount,
			"last_watering_date": state.LastWateringDate,
		})
	if res.Error != nil {
		return fmt.Errorf("update actuator state for box %d: %w", boxID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("box %d: %w", boxID, ErrNotFound)
	}
	return nil
}

func (s *gormStore) SaveReading(ctx context.Context, r *model.Reading) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("save reading for box %d: %w", r.BoxID, translate(err))
	}
	return nil
}

func (s *gormStore) ListReadings(ctx context.Context, boxID int64, since, until time.Time) ([]model.Reading, error) {
	var readings []model.Reading
	err := s.db.WithContext(ctx).
		Where("box_id = ? AND timestamp >= ? AND timestamp <= ?", boxID, since, until).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("list readings for box %d: %w", boxID, err)
	}
	return readings, nil
}

func (s *gormStore) FindUnresolvedAlert(ctx context.Context, boxID int64, alertType, message string) (model.Alert, error) {
	var alert model.Alert
	err := s.db.WithContext(ctx).
		Where("box_id = ? AND type = ? AND message = ? AND resolved = ?", boxID, alertType, message, false).
		First(&alert).Error
	if err != nil {
		return model.Alert{}, translate(err)
	}
	return alert, nil
}

func (s *gormStore) InsertAlert(ctx context.Context, a *model.Alert) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert alert for box %d: %w", a.BoxID, translate(err))
	}
	return nil
}

// priorityOrder sorts high before medium before low without relying on the
// lexical order of the stored strings.
const priorityOrder = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END"

func (s *gormStore) ActiveAlerts(ctx context.Context, boxID int64) ([]model.Alert, error) {
	var alerts []model.Alert
	err := s.db.WithContext(ctx).
		Where("box_id = ? AND resolved = ?", boxID, false).
		Order(priorityOrder).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("active alerts for box %d: %w", boxID, err)
	}
	return alerts, nil
}

func (s *gormStore) AllAlerts(ctx context.Context, boxID int64) ([]model.Alert, error) {
	var alerts []model.Alert
	err := s.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("alerts for box %d: %w", boxID, err)
	}
	return alerts, nil
}

func (s *gormStore) ResolveAlert(ctx context.Context, id int64) (model.Alert, error) {
	var alert model.Alert
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&alert, id).Error; err != nil {
			return translate(err)
		}
		alert.Resolved = true
		return tx.Model(&alert).Update("resolved", true).Error
	})
	if err != nil {
		return model.Alert{}, fmt.Errorf("resolve alert %d: %w", id, err)
	}
	return alert, nil
}

func (s *gormStore) ResolveAllAlerts(ctx context.Context, boxID int64) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Alert{}).
		Where("box_id = ? AND resolved = ?", boxID, false).
		Update("resolved", true)
	if res.Error != nil {
		return 0, fmt.Errorf("resolve alerts for box %d: %w", boxID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) DeleteAlert(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Alert{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete alert %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertStatistic creates or replaces the weekly summary row keyed by
// (box_id, week).
func (s *gormStore) UpsertStatistic(ctx context.Context, stat *model.Statistic) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "box_id"}, {Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"avg_temperature", "avg_humidity", "avg_light_hours",
			"avg_water_level", "estimated_health", "generated_at",
		}),
	}).Create(stat).Error
	if err != nil {
		return fmt.Errorf("upsert statistic for box %d week %d: %w", stat.BoxID, stat.Week, err)
	}
	return nil
}

func (s *gormStore) InsertHistory(ctx context.Context, h *model.History) error {
	if h.Date.IsZero() {
		h.Date = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("insert %s history for box %d: %w", h.Kind, h.BoxID, err)
	}
	return nil
}

func (s *gormStore) FirstHistory(ctx context.Context, boxID int64) (model.History, error) {
	var h model.History
	err := s.db.WithContext(ctx).Where("box_id = ?", boxID).Order("date ASC").First(&h).Error
	if err != nil {
		return model.History{}, translate(err)
	}
	return h, nil
}

func (s *gormStore) LastHistory(ctx context.Context, boxID int64) (model.History, error) {
	var h model.History
	err := s.db.WithContext(ctx).Where("box_id = ?", boxID).Order("date DESC").First(&h).Error
	if err != nil {
		return model.History{}, translate(err)
	}
	return h, nil
}

func (s *gormStore) SubscriptionsForBox(ctx context.Context, boxID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("box_id = ?", boxID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("subscriptions for box %d: %w", boxID, err)
	}
	return subs, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("delete subscription %s: %w", endpoint, err)
	}
	return nil
}
