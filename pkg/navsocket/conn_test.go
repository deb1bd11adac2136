package navsocket

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/router"
)

// harness runs an Upgrader behind httptest and hands the server-side Conn
// to the test.
type harness struct {
	srv       *httptest.Server
	conns     chan *Conn
	locations chan router.Location
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		conns:     make(chan *Conn, 1),
		locations: make(chan router.Location, 8),
	}
	up := NewUpgrader(Config{})
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := up.Upgrade(w, r, WithLocationHook(func(loc router.Location) {
			h.locations <- loc
		}))
		if err != nil {
			return
		}
		h.conns <- c
		c.Listen()
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *harness) dial(t *testing.T, location string) (*websocket.Conn, *Conn) {
	t.Helper()
	return h.dialWith(t, websocket.DefaultDialer, location)
}

func (h *harness) dialWith(t *testing.T, dialer *websocket.Dialer, location string) (*websocket.Conn, *Conn) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(h.srv.URL, "http")
	if location != "" {
		u += "?" + LocationParam + "=" + url.QueryEscape(location)
	}
	client, _, err := dialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case c := <-h.conns:
		return client, c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server connection")
	}
	return nil, nil
}

func TestUpgradeInitialLocation(t *testing.T) {
	h := newHarness(t)

	_, c := h.dial(t, "/devices?page=2")
	if got := c.Location().String(); got != "/devices?page=2" {
		t.Errorf("Location() = %q, want %q", got, "/devices?page=2")
	}

	_, c = h.dial(t, "")
	if got := c.Location().String(); got != "/" {
		t.Errorf("Location() = %q, want %q", got, "/")
	}
}

func TestUpgradeRejectsInvalidLocation(t *testing.T) {
	h := newHarness(t)

	u := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "?" + LocationParam + "=" + url.QueryEscape("devices")
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 response, got %v", resp)
	}
}

func TestNavigateSendsFrame(t *testing.T) {
	h := newHarness(t)
	client, c := h.dial(t, "/releases")

	if err := c.Navigate("/releases/rel-42?search=app", router.WithReplace()); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}

	var f Frame
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := client.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	want := Frame{Op: OpNavigate, URL: "/releases/rel-42?search=app", Replace: true, Scroll: true}
	if f != want {
		t.Errorf("frame = %+v, want %+v", f, want)
	}
	if got := c.Location().Path; got != "/releases/rel-42" {
		t.Errorf("Location().Path = %q, want %q", got, "/releases/rel-42")
	}
}

func TestNavigatePush(t *testing.T) {
	h := newHarness(t)
	client, c := h.dial(t, "/devices")

	if err := c.Navigate("/devices?page=3", router.WithPush(), router.WithoutScroll()); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	var f Frame
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := client.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if f.Replace || f.Scroll {
		t.Errorf("frame = %+v, want push without scroll", f)
	}
}

func TestClientLocationFrames(t *testing.T) {
	h := newHarness(t)
	client, c := h.dial(t, "/devices")

	// Malformed and unexpected frames are dropped.
	client.WriteMessage(websocket.TextMessage, []byte("{"))
	client.WriteJSON(Frame{Op: OpNavigate, URL: "/x"})
	client.WriteJSON(Frame{Op: OpLocation, URL: "relative"})

	if err := client.WriteJSON(Frame{Op: OpLocation, URL: "/devices?status=accepted"}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	select {
	case loc := <-h.locations:
		if loc.String() != "/devices?status=accepted" {
			t.Errorf("reported location = %q", loc.String())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for location frame")
	}
	if got := c.Location().String(); got != "/devices?status=accepted" {
		t.Errorf("Location() = %q", got)
	}
}

func TestNavigateInvalidTarget(t *testing.T) {
	h := newHarness(t)
	_, c := h.dial(t, "/")

	err := c.Navigate("no-slash")
	if !errors.HasCode(err, "E021") {
		t.Fatalf("Navigate() error = %v, want E021", err)
	}
}

func TestNavigateAfterClose(t *testing.T) {
	h := newHarness(t)
	_, c := h.dial(t, "/")

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}

	select {
	case <-c.Done():
	default:
		t.Fatal("Done() should be closed")
	}

	if err := c.Navigate("/devices"); !errors.HasCode(err, "E011") {
		t.Fatalf("Navigate() error = %v, want E011", err)
	}
}

func TestListenEndsWhenClientCloses(t *testing.T) {
	h := newHarness(t)
	client, c := h.dial(t, "/")

	client.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	client.Close()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not close the connection")
	}
}
