package navsocket

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/router"
)

// LocationParam is the upgrade request query parameter carrying the
// client's location at connect time.
const LocationParam = "location"

// Config configures the WebSocket navigator.
type Config struct {
	// ReadBufferSize and WriteBufferSize size the connection buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// MaxMessageSize limits client frames in bytes.
	MaxMessageSize int64

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// ReadTimeout closes connections that stay silent. Zero disables it.
	ReadTimeout time.Duration

	// CheckOrigin validates the upgrade request origin.
	// If nil, same-origin requests are accepted.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MaxMessageSize:  8 * 1024,
		WriteTimeout:    10 * time.Second,
	}
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLocationHook registers fn to be called for every location the client
// reports.
func WithLocationHook(fn func(router.Location)) Option {
	return func(c *Conn) {
		c.onLocation = fn
	}
}

// Upgrader upgrades HTTP requests to navigator connections.
type Upgrader struct {
	config   Config
	upgrader websocket.Upgrader
}

// NewUpgrader creates an Upgrader. Zero config fields take their defaults.
func NewUpgrader(config Config) *Upgrader {
	def := DefaultConfig()
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = def.ReadBufferSize
	}
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = def.WriteBufferSize
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = def.MaxMessageSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}
	return &Upgrader{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
			Subprotocols:    []string{SubprotocolCBOR, SubprotocolJSON},
		},
	}
}

// Upgrade upgrades the request. The initial location is taken from the
// "location" query parameter and defaults to "/". Frames are CBOR when the
// client offers SubprotocolCBOR and JSON otherwise.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request, opts ...Option) (*Conn, error) {
	initial := router.Location{Path: "/"}
	if raw := r.URL.Query().Get(LocationParam); raw != "" {
		loc, err := router.ParseLocation(raw)
		if err != nil {
			http.Error(w, "invalid location", http.StatusBadRequest)
			return nil, errors.New("E021").WithDetail(raw).Wrap(err)
		}
		initial = loc
	}

	ws, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	ws.SetReadLimit(u.config.MaxMessageSize)

	return newConn(ws, u.config, codecFor(ws.Subprotocol()), initial, opts...), nil
}

// Conn is a router.Navigator backed by one WebSocket connection.
// It is safe for concurrent use.
type Conn struct {
	ws         *websocket.Conn
	config     Config
	codec      codec
	logger     *slog.Logger
	onLocation func(router.Location)

	writeMu sync.Mutex

	locMu sync.RWMutex
	loc   router.Location

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, config Config, fc codec, initial router.Location, opts ...Option) *Conn {
	c := &Conn{
		ws:     ws,
		config: config,
		codec:  fc,
		logger: slog.Default(),
		loc:    initial,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the last location reported by the client or set by a
// successful navigation.
func (c *Conn) Location() router.Location {
	c.locMu.RLock()
	defer c.locMu.RUnlock()
	return c.loc
}

func (c *Conn) setLocation(loc router.Location) {
	c.locMu.Lock()
	c.loc = loc
	c.locMu.Unlock()
}

// Navigate sends a navigate frame. The location is updated once the frame
// is written; the client confirms with a location frame.
func (c *Conn) Navigate(target string, opts ...router.NavigateOption) error {
	if c.closed.Load() {
		return errors.New("E011")
	}

	req, err := router.NewNavigationRequest(target, opts...)
	if err != nil {
		return errors.New("E021").WithDetail(target).Wrap(err)
	}
	frame := navigateFrame(req)
	data, err := c.codec.marshal(frame)
	if err != nil {
		return errors.New("E010").WithDetail(target).Wrap(err)
	}

	c.writeMu.Lock()
	c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err = c.ws.WriteMessage(c.codec.messageType(), data)
	c.writeMu.Unlock()
	if err != nil {
		if c.closed.Load() {
			return errors.New("E011").Wrap(err)
		}
		return errors.New("E010").WithDetail(frame.URL).Wrap(err)
	}

	c.setLocation(req.Location())
	return nil
}

// Listen reads client frames until the connection closes. It closes the
// Conn before returning.
func (c *Conn) Listen() {
	defer c.Close()

	for {
		if c.config.ReadTimeout > 0 {
			c.ws.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		}

		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) && !c.closed.Load() {
				c.logger.Error("navsocket: read error", "error", err)
			}
			return
		}

		loc, err := decodeFrame(c.codec, msg)
		if err != nil {
			c.logger.Warn("navsocket: dropped frame", "error", err)
			continue
		}
		c.setLocation(loc)
		if c.onLocation != nil {
			c.onLocation(loc)
		}
	}
}

// Subprotocol returns the negotiated frame encoding.
func (c *Conn) Subprotocol() string {
	if _, ok := c.codec.(cborCodec); ok {
		return SubprotocolCBOR
	}
	return SubprotocolJSON
}

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and closes the connection. It is idempotent.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)

		c.writeMu.Lock()
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
