// Package guestsub subscribes to the guest chain's event stream over a
// WebSocket and normalizes bridge-module records into bridgemodel events,
// per spec.md §4.4.2. It splits the connection into a listener goroutine
// (reads frames, decodes the envelope) and a handler goroutine (maps each
// envelope into zero or one Event), connected by an internal channel —
// the same read-pump/broadcast split as the teacher's
// oracle/push/websocket_server.go, mirrored from server-side Upgrade to a
// client-side Dial.
package guestsub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
)

const (
	readLimit   = 1 << 20
	pingPeriod  = 30 * time.Second
	pongTimeout = 60 * time.Second
)

// rawRecord is one event record delivered by the guest chain's event
// stream: a module tag, an event type tag, and the event's raw fields.
type rawRecord struct {
	Module string          `json:"module"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

const bridgeModule = "bridge"

// Subscriber owns the WebSocket connection and the internal channel
// relaying decoded records from the listener to the handler.
type Subscriber struct {
	url    string
	out    chan<- bridgemodel.Event
	frames chan rawRecord
}

// New builds a Subscriber that dials url and emits decoded events onto out.
func New(url string, out chan<- bridgemodel.Event) *Subscriber {
	return &Subscriber{url: url, out: out, frames: make(chan rawRecord, 256)}
}

// Run dials the guest chain's event stream and runs the listener/handler
// pair until ctx is canceled, reconnecting with backoff on disconnect.
func (s *Subscriber) Run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			log.Warn().Err(err).Dur("backoff", backoff).Msg("guestsub: dial failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		log.Info().Str("url", s.url).Msg("guestsub: connected")
		s.runConnection(ctx, conn)
	}
}

// runConnection drives one connection's listener and handler to
// completion, returning when the connection drops or ctx is canceled.
func (s *Subscriber) runConnection(ctx context.Context, conn *websocket.Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	go s.handle(connCtx)
	s.listen(connCtx, conn)
}

// listen is the read pump: it decodes frames and forwards them to handle
// over s.frames, blocking only on that forward.
func (s *Subscriber) listen(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	go s.pingLoop(ctx, conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Msg("guestsub: read error, reconnecting")
			return
		}
		var rec rawRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			log.Warn().Err(err).Msg("guestsub: malformed record, skipped")
			continue
		}
		select {
		case s.frames <- rec:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Subscriber) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle is the decode pump: it drains s.frames and pushes decoded events
// onto the Subscriber's shared out channel.
func (s *Subscriber) handle(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-s.frames:
			if rec.Module != bridgeModule {
				continue
			}
			e, ok := decodeGuestRecord(rec)
			if !ok {
				log.Warn().Str("type", rec.Type).Msg("guestsub: unrecognized bridge event type, skipped")
				continue
			}
			s.out <- e
		}
	}
}
