package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wellstation/wellstation-sub000/internal/model"
)

func settingValues(overrides map[string]string) map[string]string {
	values := map[string]string{
		model.SettingStartTime:       model.DefaultStartTime,
		model.SettingEndTime:         model.DefaultEndTime,
		model.SettingIntervalMinutes: "30",
		model.SettingBufferSlots:     "1",
	}
	for k, v := range overrides {
		values[k] = v
	}
	return values
}

func TestBuildScheduleDefaults(t *testing.T) {
	s, err := buildSchedule(settingValues(nil))
	require.NoError(t, err)
	assert.Equal(t, "09:00", s.Start.String())
	assert.Equal(t, "18:00", s.End.String())
	assert.Equal(t, 30*time.Minute, s.Interval)
	assert.Equal(t, 1, s.BufferSlots)
}

func TestBuildScheduleOverrides(t *testing.T) {
	s, err := buildSchedule(settingValues(map[string]string{
		model.SettingStartTime:       "10:30",
		model.SettingEndTime:         "20:00",
		model.SettingIntervalMinutes: "60",
		model.SettingBufferSlots:     "2",
	}))
	require.NoError(t, err)
	assert.Equal(t, "10:30", s.Start.String())
	assert.Equal(t, time.Hour, s.Interval)
	assert.Equal(t, 2*time.Hour, s.Buffer())
}

func TestBuildScheduleMalformed(t *testing.T) {
	_, err := buildSchedule(settingValues(map[string]string{model.SettingStartTime: "25:99"}))
	assert.Error(t, err)

	_, err = buildSchedule(settingValues(map[string]string{model.SettingIntervalMinutes: "half an hour"}))
	assert.Error(t, err)

	// start after end fails schedule validation
	_, err = buildSchedule(settingValues(map[string]string{
		model.SettingStartTime: "19:00",
		model.SettingEndTime:   "09:00",
	}))
	assert.Error(t, err)
}
