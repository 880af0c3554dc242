package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wellstation/wellstation-sub000/internal/notify"
)

type fakeNotifier struct {
	phone    string
	template string
	vars     map[string]string
	err      error
}

func (f *fakeNotifier) SendTemplated(_ context.Context, phone, templateID string, vars map[string]string) error {
	f.phone = phone
	f.template = templateID
	f.vars = vars
	return f.err
}

func marshal(t *testing.T, ev ReservationEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b
}

func TestHandleMessageConfirmed(t *testing.T) {
	fn := &fakeNotifier{}
	ev := ReservationEvent{
		Type: EventConfirmed, UID: "abc", Category: "REPAIR",
		Name: "Kim", Phone: "01012345678", ScheduledAt: "2026-09-01 10:00",
	}
	require.NoError(t, handleMessage(marshal(t, ev), fn, zerolog.Nop()))
	assert.Equal(t, "01012345678", fn.phone)
	assert.Equal(t, notify.TemplateConfirmed, fn.template)
	assert.Equal(t, "Kim", fn.vars["name"])
	assert.Equal(t, "2026-09-01 10:00", fn.vars["time"])
}

func TestHandleMessageCancelledCarriesReason(t *testing.T) {
	fn := &fakeNotifier{}
	ev := ReservationEvent{
		Type: EventCancelled, UID: "abc", Category: "PARKING",
		Name: "Lee", Phone: "01012345678", ScheduledAt: "2026-09-01 10:00",
		Reason: "holiday closure",
	}
	require.NoError(t, handleMessage(marshal(t, ev), fn, zerolog.Nop()))
	assert.Equal(t, notify.TemplateCancelled, fn.template)
	assert.Equal(t, "holiday closure", fn.vars["reason"])
}

func TestHandleMessageUnknownType(t *testing.T) {
	ev := ReservationEvent{Type: "rescheduled"}
	err := handleMessage(marshal(t, ev), &fakeNotifier{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestHandleMessageBadPayload(t *testing.T) {
	err := handleMessage([]byte("not json"), &fakeNotifier{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestHandleMessageNotifierFailure(t *testing.T) {
	fn := &fakeNotifier{err: errors.New("gateway down")}
	ev := ReservationEvent{Type: EventConfirmed, Phone: "01012345678"}
	err := handleMessage(marshal(t, ev), fn, zerolog.Nop())
	assert.Error(t, err)
}
