package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"
	wsHub "github.com/0x5c-0x200f/asterraIO-assignment/internal/ws"
)

// --- helpers ----------------------------------------------------------------

// fakeLister answers get_users from a fixed slice or with a fixed error.
type fakeLister struct {
	users []entity.UserAggregate
	err   error
}

func (f *fakeLister) ListUsers(context.Context) ([]entity.UserAggregate, error) {
	return f.users, f.err
}

func aggregate(id int64, firstName string, hobbies ...string) entity.UserAggregate {
	if hobbies == nil {
		hobbies = []string{}
	}
	return entity.UserAggregate{
		User: entity.User{
			ID:          id,
			FirstName:   firstName,
			LastName:    "Tester",
			Address:     "1 Test Street",
			PhoneNumber: "5550000000",
		},
		Hobbies: hobbies,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// startHub serves the hub from a test HTTP server and returns the ws:// URL.
func startHub(t *testing.T, lister wsHub.UserLister) (string, *wsHub.Hub) {
	t.Helper()

	hub := wsHub.NewHub(quietLogger())
	if lister != nil {
		hub.SetLister(lister)
	}
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(msg, &m); err != nil {
		t.Fatalf("unmarshal %q: %v", msg, err)
	}
	return m
}

// waitForCount waits until the hub reports n connected clients.
func waitForCount(t *testing.T, hub *wsHub.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Count: got %d, want %d", hub.Count(), n)
}

// --- tests ------------------------------------------------------------------

func TestHub_GetUsers_RepliesWithAggregate(t *testing.T) {
	lister := &fakeLister{users: []entity.UserAggregate{
		aggregate(1, "Ada", "knitting"),
		aggregate(2, "Grace"),
	}}
	wsURL, _ := startHub(t, lister)

	conn := dial(t, wsURL)
	send(t, conn, `{"type":"get_users"}`)

	m := readEvent(t, conn)
	if m["type"] != "users_list" {
		t.Fatalf("type: got %v, want users_list", m["type"])
	}
	data, ok := m["data"].([]interface{})
	if !ok {
		t.Fatal("data: missing or wrong type")
	}
	if len(data) != 2 {
		t.Fatalf("data: got %d entries, want 2", len(data))
	}

	first := data[0].(map[string]interface{})
	if first["id"] != float64(1) || first["first_name"] != "Ada" {
		t.Errorf("first entry: got %v", first)
	}
	hobbies := first["hobbies"].([]interface{})
	if len(hobbies) != 1 || hobbies[0] != "knitting" {
		t.Errorf("hobbies: got %v, want [knitting]", hobbies)
	}

	// A user with no hobby rows must serialize as an empty array, not null.
	second := data[1].(map[string]interface{})
	if empty, ok := second["hobbies"].([]interface{}); !ok || len(empty) != 0 {
		t.Errorf("hobbies for fresh user: got %v, want []", second["hobbies"])
	}
}

func TestHub_GetUsers_QueryErrorRepliesErrorEnvelope(t *testing.T) {
	wsURL, _ := startHub(t, &fakeLister{err: errors.New("connection refused")})

	conn := dial(t, wsURL)
	send(t, conn, `{"type":"get_users"}`)

	m := readEvent(t, conn)
	if m["type"] != "error" {
		t.Fatalf("type: got %v, want error", m["type"])
	}
	if m["message"] != "connection refused" {
		t.Errorf("message: got %v, want connection refused", m["message"])
	}

	// The connection stays open; a retry succeeds once the query does.
	send(t, conn, `{"type":"get_users"}`)
	m = readEvent(t, conn)
	if m["type"] != "error" {
		t.Errorf("second reply type: got %v, want error", m["type"])
	}
}

func TestHub_UnknownTypeIgnored(t *testing.T) {
	wsURL, _ := startHub(t, &fakeLister{})

	conn := dial(t, wsURL)
	send(t, conn, `{"type":"get_weather"}`)
	send(t, conn, `not json at all`)
	send(t, conn, `{"type":"get_users"}`)

	// Only the get_users request gets a reply.
	m := readEvent(t, conn)
	if m["type"] != "users_list" {
		t.Errorf("type: got %v, want users_list", m["type"])
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	wsURL, hub := startHub(t, &fakeLister{})

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, wsURL)
	}
	waitForCount(t, hub, 3)

	hub.Broadcast(wsHub.NewHobbyEvent(7, "knitting"))

	for i, conn := range conns {
		m := readEvent(t, conn)
		if m["type"] != "new_hobby" {
			t.Errorf("client %d: type: got %v, want new_hobby", i, m["type"])
			continue
		}
		data := m["data"].(map[string]interface{})
		if data["userId"] != float64(7) || data["hobby"] != "knitting" {
			t.Errorf("client %d: data: got %v", i, data)
		}
	}
}

func TestHub_LateJoinerMissesBroadcast(t *testing.T) {
	lister := &fakeLister{users: []entity.UserAggregate{aggregate(7, "Ada", "knitting")}}
	wsURL, hub := startHub(t, lister)

	early := dial(t, wsURL)
	waitForCount(t, hub, 1)

	hub.Broadcast(wsHub.NewUserEvent(entity.User{ID: 7, FirstName: "Ada"}))
	if m := readEvent(t, early); m["type"] != "new_user" {
		t.Fatalf("early client: type: got %v, want new_user", m["type"])
	}

	// A client connecting after the broadcast never receives it; it must
	// resynchronize with a fresh get_users request.
	late := dial(t, wsURL)
	send(t, late, `{"type":"get_users"}`)
	m := readEvent(t, late)
	if m["type"] != "users_list" {
		t.Fatalf("late client: type: got %v, want users_list", m["type"])
	}
	if data := m["data"].([]interface{}); len(data) != 1 {
		t.Errorf("late client list: got %d entries, want 1", len(data))
	}
}

func TestHub_NewUserEventShape(t *testing.T) {
	wsURL, hub := startHub(t, &fakeLister{})

	conn := dial(t, wsURL)
	waitForCount(t, hub, 1)

	hub.Broadcast(wsHub.NewUserEvent(entity.User{
		ID:          3,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Address:     "1 Analytical Engine Way",
		PhoneNumber: "5551234567",
	}))

	m := readEvent(t, conn)
	data := m["data"].(map[string]interface{})
	for field, want := range map[string]interface{}{
		"id":           float64(3),
		"first_name":   "Ada",
		"last_name":    "Lovelace",
		"address":      "1 Analytical Engine Way",
		"phone_number": "5551234567",
	} {
		if data[field] != want {
			t.Errorf("%s: got %v, want %v", field, data[field], want)
		}
	}
}

func TestHub_CountTracksDisconnects(t *testing.T) {
	wsURL, hub := startHub(t, &fakeLister{})

	conn := dial(t, wsURL)
	waitForCount(t, hub, 1)

	conn.Close()
	waitForCount(t, hub, 0)
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	wsURL, hub := startHub(t, &fakeLister{})

	dial(t, wsURL)
	dial(t, wsURL)
	waitForCount(t, hub, 2)

	hub.Shutdown()
	waitForCount(t, hub, 0)
}

func TestHub_NonWebSocketRequestRejected(t *testing.T) {
	hub := wsHub.NewHub(quietLogger())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
