package alert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// eventRecorder stubs the one Store method the bus touches.
type eventRecorder struct {
	fakeStore
	events []domain.Event
	fail   bool
}

func (r *eventRecorder) AppendEvent(kind domain.EventKind, severity domain.Severity, message string, details json.RawMessage) error {
	if r.fail {
		return errors.New("disk full")
	}
	r.events = append(r.events, domain.Event{Kind: kind, Severity: severity, Message: message, Details: details})
	return nil
}

type stubSink struct {
	name      string
	delivered int
	err       error
}

func (s *stubSink) Name() string { return s.name }
func (s *stubSink) Deliver(_ context.Context, _, _ string, _ domain.Severity) error {
	s.delivered++
	return s.err
}

func TestSendDisabledIsNoop(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewBus(rec, false)
	sink := &stubSink{name: "stub"}
	bus.AddSink(sink)

	assert.False(t, bus.Send("New Device", "something joined", domain.SeverityInfo))
	assert.Empty(t, rec.events)
	assert.Zero(t, sink.delivered)
}

func TestSendLogsEventAndDelivers(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewBus(rec, true)
	sink := &stubSink{name: "stub"}
	bus.AddSink(sink)

	ok := bus.Send("New Device", "aa:bb joined", domain.SeverityInfo)
	assert.True(t, ok)
	assert.Equal(t, 1, sink.delivered)

	require.Len(t, rec.events, 1)
	assert.Equal(t, domain.EventAlert, rec.events[0].Kind)
	assert.Contains(t, rec.events[0].Message, "New Device")
}

func TestSendReportsExternalDeliveryOnly(t *testing.T) {
	rec := &eventRecorder{}
	bus := NewBus(rec, true)

	// No sinks: event still logged, result false.
	assert.False(t, bus.Send("Offline", "device gone", domain.SeverityWarning))
	assert.Len(t, rec.events, 1)

	// A failing sink keeps the result false.
	bus.AddSink(&stubSink{name: "bad", err: errors.New("unreachable")})
	assert.False(t, bus.Send("Offline", "device gone", domain.SeverityWarning))

	// One of two sinks succeeding flips it to true.
	bus.AddSink(&stubSink{name: "good"})
	assert.True(t, bus.Send("Offline", "device gone", domain.SeverityWarning))
}

func TestSendSurvivesStoreFailure(t *testing.T) {
	rec := &eventRecorder{fail: true}
	bus := NewBus(rec, true)
	sink := &stubSink{name: "stub"}
	bus.AddSink(sink)

	assert.True(t, bus.Send("Alert", "store down", domain.SeverityError))
	assert.Equal(t, 1, sink.delivered)
}

func TestTelegramSinkFormatsMessage(t *testing.T) {
	var gotPath, gotText, gotChat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotText = r.FormValue("text")
		gotChat = r.FormValue("chat_id")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	sink := NewTelegramSink("token123", "chat42")
	sink.baseURL = srv.URL

	err := sink.Deliver(context.Background(), "Important <Device> Offline", "nas & friends", domain.SeverityWarning)
	require.NoError(t, err)
	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "chat42", gotChat)
	assert.Contains(t, gotText, "Important &lt;Device&gt; Offline")
	assert.Contains(t, gotText, "nas &amp; friends")
}

func TestTelegramSinkErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sink := NewTelegramSink("bad", "chat")
	sink.baseURL = srv.URL
	assert.Error(t, sink.Deliver(context.Background(), "t", "m", domain.SeverityInfo))
}

func TestSetTelegramFollowsSettings(t *testing.T) {
	bus := NewBus(&eventRecorder{}, true)
	other := &stubSink{name: "stub"}
	bus.AddSink(other)

	// Enable: the sink appears alongside existing ones.
	bus.SetTelegram(true, "123:abc", "42")
	require.Len(t, bus.sinks, 2)
	tg, ok := bus.sinks[1].(*TelegramSink)
	require.True(t, ok)
	assert.Equal(t, "123:abc", tg.token)

	// Re-key: still one telegram sink, carrying the new credentials.
	bus.SetTelegram(true, "456:def", "43")
	require.Len(t, bus.sinks, 2)
	tg, ok = bus.sinks[1].(*TelegramSink)
	require.True(t, ok)
	assert.Equal(t, "456:def", tg.token)
	assert.Equal(t, "43", tg.chatID)

	// Disable: telegram goes, the other sink stays.
	bus.SetTelegram(false, "456:def", "43")
	require.Len(t, bus.sinks, 1)
	assert.Equal(t, "stub", bus.sinks[0].Name())

	// Enabled without credentials installs nothing.
	bus.SetTelegram(true, "", "")
	assert.Len(t, bus.sinks, 1)
}
