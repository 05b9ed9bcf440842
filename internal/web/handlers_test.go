package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/odemirel/turretgo/internal/link"
	"github.com/odemirel/turretgo/internal/logic/control"
)

type fakeSink struct {
	pushed [][]byte
}

func (s *fakeSink) Push(b []byte) {
	s.pushed = append(s.pushed, b)
}

func testHandlers(sink CommandSink) *Handlers {
	state := control.NewState(0, 0)
	state.SetStepperTarget(200)
	return NewHandlers(
		NewStatusBroadcaster(),
		sink,
		state.Snapshot,
		fstest.MapFS{"index.html": &fstest.MapFile{Data: []byte("<html>ok</html>")}},
	)
}

func postCommand(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCommand(rec, req)
	return rec
}

func TestHandleCommand_ServoFrameInjected(t *testing.T) {
	sink := &fakeSink{}
	h := testHandlers(sink)

	rec := postCommand(t, h, `{"actuator":"servo","angle":45}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if len(sink.pushed) != 1 {
		t.Fatalf("expected 1 injected frame, got %d", len(sink.pushed))
	}
	want := link.Encode(link.CmdServo, 45)
	got := sink.pushed[0]
	if len(got) != len(want) {
		t.Fatalf("frame length = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame[%d] = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}

func TestHandleCommand_StepperFrameInjected(t *testing.T) {
	sink := &fakeSink{}
	h := testHandlers(sink)

	rec := postCommand(t, h, `{"actuator":"stepper","angle":200}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sink.pushed) != 1 || sink.pushed[0][1] != link.CmdStepper {
		t.Errorf("pushed = %v", sink.pushed)
	}
}

func TestHandleCommand_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad_json", `{`},
		{"unknown_actuator", `{"actuator":"laser","angle":1}`},
		{"angle_negative", `{"actuator":"servo","angle":-1}`},
		{"angle_too_large", `{"actuator":"servo","angle":256}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &fakeSink{}
			h := testHandlers(sink)
			rec := postCommand(t, h, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(sink.pushed) != 0 {
				t.Error("invalid command must not inject a frame")
			}
		})
	}
}

func TestHandleCommand_NoSink(t *testing.T) {
	h := testHandlers(nil)
	rec := postCommand(t, h, `{"actuator":"servo","angle":45}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleState(t *testing.T) {
	h := testHandlers(&fakeSink{})

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	rec := httptest.NewRecorder()
	h.HandleState(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap control.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("body is not a snapshot: %v", err)
	}
	if snap.StepperTarget != 200 {
		t.Errorf("stepper target = %g, want 200", snap.StepperTarget)
	}
}

func TestServeIndex(t *testing.T) {
	h := testHandlers(&fakeSink{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestHandleStatusStream_Headers(t *testing.T) {
	h := testHandlers(&fakeSink{})

	req := httptest.NewRequest(http.MethodGet, "/status/stream", nil)
	ctx, cancel := contextWithQuickCancel(req)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HandleStatusStream(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), ": connected") {
		t.Errorf("missing connection comment: %q", rec.Body.String())
	}
}

// contextWithQuickCancel returns a context that cancels itself shortly
// after, so the SSE handler's loop exits during tests.
func contextWithQuickCancel(req *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req.Context())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	return ctx, cancel
}
