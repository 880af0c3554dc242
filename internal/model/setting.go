package model

import "time"

// Service setting keys as stored in the service_settings table.  Each
// category owns one row per key; absent rows fall back to the defaults
// below.  The typed ServiceSchedule in internal/schedule is built from
// these rows so handlers never touch the raw key/value form.
const (
	SettingStartTime       = "start_time"
	SettingEndTime         = "end_time"
	SettingIntervalMinutes = "interval_minutes"
	SettingBufferSlots     = "disable_after_slots"
)

// Defaults applied when a category has no stored settings.
const (
	DefaultStartTime       = "09:00"
	DefaultEndTime         = "18:00"
	DefaultIntervalMinutes = 30
	DefaultBufferSlots     = 1
)

// ServiceSetting is one key/value configuration row for a category.
//
// Fields:
//  ID          – primary key identifier.
//  Category    – service line the setting applies to.
//  Key         – setting key (see the Setting* constants).
//  Value       – string value; numeric settings are stored as decimal text.
//  Description – optional human-readable note shown in the admin UI.
//  UpdatedAt   – last modification timestamp.
type ServiceSetting struct {
	ID          uint64          // service_settings.id
	Category    ServiceCategory // service_settings.category
	Key         string          // service_settings.setting_key
	Value       string          // service_settings.setting_value
	Description *string         // service_settings.description (nullable)
	UpdatedAt   time.Time       // service_settings.updated_at
}
