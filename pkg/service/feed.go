package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tofabd/call-center-shajgoj-sub000/config"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/directory"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/health"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/registry"
)

// Reconnect backoff bounds for the feed dialler.
const (
	initialRedialDelay = time.Second
	maxRedialDelay     = 30 * time.Second

	// After this many consecutive failed dials the channel is reported
	// disconnected rather than reconnecting.
	disconnectedAfterAttempts = 5
)

// feedEnvelope is the wire shape of one push message.
type feedEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FeedService consumes the push channel: a websocket stream of call events,
// extension deltas and pings. Every received message counts as a heartbeat.
// Malformed events are dropped at this boundary so one bad payload never
// halts processing of the stream.
type FeedService struct {
	config    *config.Feed
	registry  *registry.CallRegistry
	directory *directory.Directory
	health    *health.Monitor
}

// NewFeedService creates the push-channel consumer.
func NewFeedService(cfg *config.Feed, reg *registry.CallRegistry, dir *directory.Directory, mon *health.Monitor) *FeedService {
	return &FeedService{
		config:    cfg,
		registry:  reg,
		directory: dir,
		health:    mon,
	}
}

// Run dials the feed and reads it until the context is cancelled,
// redialling with capped backoff whenever the connection drops.
func (s *FeedService) Run(ctx context.Context) {
	logger.FeedLog.Infof("Starting event feed consumer for %s", s.config.URL)

	delay := initialRedialDelay
	attempts := 0

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.dial(ctx)
		if err != nil {
			attempts++
			if attempts >= disconnectedAfterAttempts {
				s.health.SetDisconnected()
			} else {
				s.health.SetReconnecting()
			}
			logger.FeedLog.Warnf("Feed dial failed (attempt %d): %v, retrying in %s", attempts, err, delay)

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxRedialDelay {
				delay = maxRedialDelay
			}
			continue
		}

		attempts = 0
		delay = initialRedialDelay
		s.health.Heartbeat()

		s.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		s.health.SetReconnecting()
	}
}

func (s *FeedService) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.config.DialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.config.URL, nil)
	return conn, err
}

// readLoop consumes messages until the connection breaks or ctx is
// cancelled. Delivery into the registry/directory is synchronous: the mutex
// hold inside Apply is the only blocking it does, so the sender is never
// backed up by slow consumers.
func (s *FeedService) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Unblock ReadMessage on shutdown.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetPingHandler(func(appData string) error {
		s.health.Heartbeat()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				logger.FeedLog.Errorf("Feed read error: %v", err)
			}
			return
		}

		// Any message proves the channel is alive.
		s.health.Heartbeat()
		s.handleMessage(payload)
	}
}

// handleMessage dispatches one envelope. Errors are absorbed here: the feed
// redelivers and reorders, so a single bad event is logged and dropped with
// the stored records left exactly as they were.
func (s *FeedService) handleMessage(payload []byte) {
	var env feedEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		logger.FeedLog.Warnf("Dropping undecodable feed message: %v", err)
		return
	}

	switch env.Type {
	case "call":
		var ev models.CallEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			logger.FeedLog.Warnf("Dropping malformed call event: %v", err)
			return
		}
		if _, err := s.registry.Apply(ev); err != nil {
			if errors.Is(err, models.ErrStaleEvent) {
				return
			}
			logger.FeedLog.Warnf("Dropping call event: %v", err)
		}

	case "extension":
		var u models.ExtensionUpdate
		if err := json.Unmarshal(env.Data, &u); err != nil {
			logger.FeedLog.Warnf("Dropping malformed extension event: %v", err)
			return
		}
		if _, err := s.directory.Apply(u); err != nil {
			logger.FeedLog.Warnf("Dropping extension event: %v", err)
		}

	case "ping":
		// Heartbeat already recorded above.

	default:
		logger.FeedLog.Debugf("Ignoring feed message type %q", env.Type)
	}
}
