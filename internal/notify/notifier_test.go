package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(tplURL, smsURL string) *GatewayClient {
	return NewGatewayClient(tplURL, smsURL, "test-key", "0700000000", zerolog.Nop())
}

func TestSendTemplatedPrimaryChannel(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := newClient(srv.URL, "")
	err := g.SendTemplated(context.Background(), "01012345678", TemplateVerification,
		map[string]string{"code": "123456"})
	require.NoError(t, err)
	assert.Equal(t, "01012345678", got["to"])
	assert.Equal(t, TemplateVerification, got["template_id"])
}

func TestSendTemplatedFallsBackToSMS(t *testing.T) {
	tpl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer tpl.Close()

	var smsBody map[string]interface{}
	sms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&smsBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer sms.Close()

	g := newClient(tpl.URL, sms.URL)
	err := g.SendTemplated(context.Background(), "01012345678", TemplateVerification,
		map[string]string{"code": "654321"})
	require.NoError(t, err)
	assert.Equal(t, "[Wellstation] verification code 654321 (valid 3 minutes)", smsBody["text"])
}

func TestSendTemplatedBothChannelsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := newClient(srv.URL, srv.URL)
	err := g.SendTemplated(context.Background(), "01012345678", TemplateConfirmed, nil)
	assert.Error(t, err)
}

func TestSendTemplatedUnconfigured(t *testing.T) {
	g := newClient("", "")
	assert.NoError(t, g.SendTemplated(context.Background(), "01012345678", TemplateConfirmed, nil))
}

func TestRenderFallback(t *testing.T) {
	out := renderFallback(TemplateConfirmed, map[string]string{
		"name": "Kim", "category": "repair", "time": "2026-09-01 10:00",
	})
	assert.Equal(t, "[Wellstation] Kim, your repair reservation for 2026-09-01 10:00 is confirmed.", out)

	// cancellation without a reason drops the placeholder
	out = renderFallback(TemplateCancelled, map[string]string{
		"name": "Kim", "category": "parking", "time": "2026-09-01 10:00",
	})
	assert.Equal(t, "[Wellstation] Kim, your parking reservation for 2026-09-01 10:00 was cancelled.", out)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "010****5678", maskPhone("01012345678"))
	assert.Equal(t, "***", maskPhone("123"))
}
