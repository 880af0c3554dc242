package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/schedule"
)

// SettingRepo reads and writes per-category scheduling configuration.
// Storage stays in key/value form (one row per (category, key)) but the
// rest of the application only ever sees the typed schedule.Schedule;
// missing rows fall back to the documented defaults.
type SettingRepo struct {
	db *sql.DB
}

// NewSettingRepo returns a new SettingRepo bound to the given database.
func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{db: db} }

// ScheduleFor loads the schedule of a category, applying defaults for
// any absent key.  A malformed stored value is reported as an error
// rather than silently defaulted, so a broken admin edit surfaces
// instead of quietly changing the operating hours.
func (r *SettingRepo) ScheduleFor(ctx context.Context, category model.ServiceCategory) (schedule.Schedule, error) {
	values := map[string]string{
		model.SettingStartTime:       model.DefaultStartTime,
		model.SettingEndTime:         model.DefaultEndTime,
		model.SettingIntervalMinutes: strconv.Itoa(model.DefaultIntervalMinutes),
		model.SettingBufferSlots:     strconv.Itoa(model.DefaultBufferSlots),
	}
	const q = `SELECT setting_key, setting_value FROM service_settings WHERE category = ?`
	rows, err := r.db.QueryContext(ctx, q, category)
	if err != nil {
		return schedule.Schedule{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return schedule.Schedule{}, err
		}
		if _, known := values[key]; known {
			values[key] = value
		}
	}
	if err := rows.Err(); err != nil {
		return schedule.Schedule{}, err
	}
	return buildSchedule(values)
}

func buildSchedule(values map[string]string) (schedule.Schedule, error) {
	start, err := schedule.ParseTimeOfDay(values[model.SettingStartTime])
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("setting %s: %w", model.SettingStartTime, err)
	}
	end, err := schedule.ParseTimeOfDay(values[model.SettingEndTime])
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("setting %s: %w", model.SettingEndTime, err)
	}
	interval, err := strconv.Atoi(values[model.SettingIntervalMinutes])
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("setting %s: %w", model.SettingIntervalMinutes, err)
	}
	buffer, err := strconv.Atoi(values[model.SettingBufferSlots])
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("setting %s: %w", model.SettingBufferSlots, err)
	}
	s := schedule.Schedule{
		Start:       start,
		End:         end,
		Interval:    time.Duration(interval) * time.Minute,
		BufferSlots: buffer,
	}
	if err := s.Validate(); err != nil {
		return schedule.Schedule{}, err
	}
	return s, nil
}

// UpsertSchedule validates and stores the full schedule of a category,
// one upsert per key.  All four keys are written together so a category
// can never end up with a half-applied edit.
func (r *SettingRepo) UpsertSchedule(ctx context.Context, category model.ServiceCategory, s schedule.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	pairs := map[string]string{
		model.SettingStartTime:       s.Start.String(),
		model.SettingEndTime:         s.End.String(),
		model.SettingIntervalMinutes: strconv.Itoa(int(s.Interval / time.Minute)),
		model.SettingBufferSlots:     strconv.Itoa(s.BufferSlots),
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO service_settings (category, setting_key, setting_value)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`
	for key, value := range pairs {
		if _, err := tx.ExecContext(ctx, q, category, key, value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
