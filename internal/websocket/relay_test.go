package websocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"prepwise-service/internal/call"
	"prepwise-service/internal/domain/interview"
	wstypes "prepwise-service/internal/domain/websocket"
	ws "prepwise-service/internal/websocket"
	"prepwise-service/internal/websocket/handler"

	"github.com/gorilla/websocket"
)

type relayServer struct {
	conn  *websocket.Conn
	calls chan *call.Controller
}

func startRelayServer(t *testing.T, mode call.Mode, cfg call.Config) *websocket.Conn {
	t.Helper()
	return startRelay(t, mode, cfg, nil).conn
}

func startRelay(t *testing.T, mode call.Mode, cfg call.Config, feedback call.FeedbackGenerator) *relayServer {
	t.Helper()
	calls := make(chan *call.Controller, 1)

	hub := ws.NewHub(nil, nil)
	hub.RegisterHandler(handler.NewCallHandler())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := ws.NewClient(hub, conn, &ws.ClientAuth{UserID: "u-1", Email: "ada@example.com"})
		relay := ws.NewRelay(client)
		ctrl := call.NewController(mode, call.Profile{UserName: "Ada", UserID: "u-1", InterviewID: "iv-1"}, cfg, call.Options{
			Voice:     relay,
			Presenter: relay,
			Feedback:  feedback,
		})
		client.AttachCall(ctrl, cfg.WebToken)
		calls <- ctrl
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &relayServer{conn: conn, calls: calls}
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

// waitFor reads messages until one of the given type arrives.
func waitFor(t *testing.T, conn *websocket.Conn, typ wstypes.EventType) *wstypes.WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		msg, err := wstypes.ParseMessage(data)
		if err != nil {
			t.Fatalf("ParseMessage() error = %v", err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestRelayDrivesGenerateCall(t *testing.T) {
	conn := startRelayServer(t, call.ModeGenerate, call.Config{WebToken: "web-token", AssistantID: "asst_1"})

	connected := waitFor(t, conn, wstypes.EventTypeConnected)
	var hello map[string]any
	if err := json.Unmarshal(connected.Data, &hello); err != nil {
		t.Fatalf("invalid connected payload: %v", err)
	}
	if hello["web_token"] != "web-token" || hello["call_id"] == "" {
		t.Fatalf("connected = %v", hello)
	}

	send(t, conn, `{"type":"call:request_start"}`)
	start := waitFor(t, conn, wstypes.EventTypeStartCommand)
	var cmd wstypes.StartCommand
	if err := json.Unmarshal(start.Data, &cmd); err != nil {
		t.Fatalf("invalid start payload: %v", err)
	}
	if cmd.AssistantID != "asst_1" || cmd.VariableValues["username"] != "Ada" {
		t.Fatalf("start command = %+v", cmd)
	}

	send(t, conn, `{"type":"call-start"}`)
	state := waitFor(t, conn, wstypes.EventTypeState)
	var sd wstypes.StateData
	if err := json.Unmarshal(state.Data, &sd); err != nil {
		t.Fatalf("invalid state payload: %v", err)
	}
	if sd.Status != string(call.StatusActive) {
		t.Fatalf("status = %s, want %s", sd.Status, call.StatusActive)
	}

	send(t, conn, `{"type":"call-end"}`)
	nav := waitFor(t, conn, wstypes.EventTypeNavigate)
	var nd wstypes.NavigateData
	if err := json.Unmarshal(nav.Data, &nd); err != nil {
		t.Fatalf("invalid navigate payload: %v", err)
	}
	if nd.Path != call.HomePath {
		t.Fatalf("navigate = %q, want %q", nd.Path, call.HomePath)
	}
}

func TestRelayReportsMissingToken(t *testing.T) {
	conn := startRelayServer(t, call.ModeGenerate, call.Config{AssistantID: "asst_1"})

	send(t, conn, `{"type":"call:request_start"}`)
	notice := waitFor(t, conn, wstypes.EventTypeNotice)
	var nd wstypes.NoticeData
	if err := json.Unmarshal(notice.Data, &nd); err != nil {
		t.Fatalf("invalid notice payload: %v", err)
	}
	if !strings.Contains(nd.Message, "VAPI_WEB_TOKEN") {
		t.Fatalf("notice = %+v", nd)
	}
}

type countingFeedback struct {
	mu   sync.Mutex
	reqs []*interview.CreateFeedbackRequest
}

func (f *countingFeedback) CreateFeedback(_ context.Context, req *interview.CreateFeedbackRequest) interview.CreateFeedbackResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return interview.CreateFeedbackResult{Success: true, FeedbackID: "fb-1"}
}

func (f *countingFeedback) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func TestDroppedSocketFinishesInterviewCall(t *testing.T) {
	feedback := &countingFeedback{}
	srv := startRelay(t, call.ModeInterview, call.Config{WebToken: "web-token"}, feedback)
	ctrl := <-srv.calls

	send(t, srv.conn, `{"type":"call:request_start"}`)
	waitFor(t, srv.conn, wstypes.EventTypeStartCommand)
	send(t, srv.conn, `{"type":"call-start"}`)
	send(t, srv.conn, `{"type":"message","data":{"type":"transcript","transcriptType":"final","role":"assistant","transcript":"Hello"}}`)
	waitFor(t, srv.conn, wstypes.EventTypeState)

	deadline := time.Now().Add(5 * time.Second)
	for len(ctrl.Snapshot().Transcript) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	srv.conn.Close()

	for time.Now().Before(deadline) {
		if ctrl.Snapshot().Status == call.StatusFinished && feedback.count() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := ctrl.Snapshot().Status; got != call.StatusFinished {
		t.Fatalf("status after socket closed = %s, want %s", got, call.StatusFinished)
	}
	if got := feedback.count(); got != 1 {
		t.Fatalf("feedback submissions = %d, want 1", got)
	}
	if n := len(feedback.reqs[0].Transcript); n != 1 {
		t.Fatalf("submitted transcript = %d entries, want 1", n)
	}
}

func TestDroppedSocketBeforeStartLeavesCallInactive(t *testing.T) {
	feedback := &countingFeedback{}
	srv := startRelay(t, call.ModeInterview, call.Config{WebToken: "web-token"}, feedback)
	ctrl := <-srv.calls

	waitFor(t, srv.conn, wstypes.EventTypeConnected)
	srv.conn.Close()
	time.Sleep(100 * time.Millisecond)

	if got := ctrl.Snapshot().Status; got != call.StatusInactive {
		t.Fatalf("status = %s, want %s", got, call.StatusInactive)
	}
	if got := feedback.count(); got != 0 {
		t.Fatalf("feedback submissions = %d, want 0", got)
	}
}
