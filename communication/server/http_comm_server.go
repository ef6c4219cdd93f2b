package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"conquest/communication"
	"conquest/game"
	"conquest/input"
	"conquest/meta"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 64
	sendBufSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// conn is one remote player. Its source identifies it to the dispatcher.
type conn struct {
	id      string
	ws      *websocket.Conn
	source  input.Source
	send    chan []byte
	limiter *rate.Limiter
}

// ServerCommunicator accepts remote players over websocket. Text frames from a
// player are wire-format input messages; every changed frame of the game is sent
// to all players as JSON.
type ServerCommunicator struct {
	messenger communication.Messenger
	logger    zerolog.Logger
	inputRate rate.Limit
	burst     int

	mu          sync.RWMutex
	conns       map[*conn]bool
	nextSource  input.Source
	freeSources []input.Source
	sourceLimit input.Source
	last        []byte
}

type Option func(s *ServerCommunicator)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *ServerCommunicator) {
		s.logger = logger
	}
}

// WithInputRate limits every connection to perSecond messages with bursts of burst.
func WithInputRate(perSecond float64, burst int) Option {
	return func(s *ServerCommunicator) {
		if perSecond > 0 && burst > 0 {
			s.inputRate = rate.Limit(perSecond)
			s.burst = burst
		}
	}
}

// NewServerCommunicator initializes and returns a new ServerCommunicator.
func NewServerCommunicator(messenger communication.Messenger, options ...Option) *ServerCommunicator {
	// Remote sources stay below the bots' so no two players share a lock owner.
	s := &ServerCommunicator{
		messenger:   messenger,
		logger:      log.Logger,
		inputRate:   rate.Limit(10),
		burst:       5,
		conns:       make(map[*conn]bool),
		nextSource:  meta.RemoteSourceBase,
		sourceLimit: meta.BotSourceBase,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Handler returns the routes of the server.
func (s *ServerCommunicator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	return mux
}

// Start serves on addr until ctx is cancelled.
func (s *ServerCommunicator) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening for players")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ServeWS upgrades a player's connection and gives it its own input source.
func (s *ServerCommunicator) ServeWS(w http.ResponseWriter, r *http.Request) {
	src, ok := s.claimSource()
	if !ok {
		s.logger.Warn().Msg("no input source left, refusing player")
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.releaseSource(src)
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &conn{
		id:      uuid.NewString(),
		ws:      ws,
		source:  src,
		send:    make(chan []byte, sendBufSize),
		limiter: rate.NewLimiter(s.inputRate, s.burst),
	}
	s.register(c)

	go s.writePump(c)
	go s.readPump(c)

	s.logger.Info().Str("conn", c.id).Int("source", int(c.source)).Int("total", s.ConnectionCount()).Msg("player connected")
}

// claimSource hands out the source of a closed connection if there is one, else a
// new one below sourceLimit.
func (s *ServerCommunicator) claimSource() (input.Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.freeSources); n > 0 {
		src := s.freeSources[n-1]
		s.freeSources = s.freeSources[:n-1]
		return src, true
	}
	if s.nextSource >= s.sourceLimit {
		return 0, false
	}
	src := s.nextSource
	s.nextSource++
	return src, true
}

func (s *ServerCommunicator) releaseSource(src input.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freeSources = append(s.freeSources, src)
}

func (s *ServerCommunicator) register(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = true
	// A new player sees the current frame right away.
	if s.last != nil {
		c.send <- s.last
	}
}

func (s *ServerCommunicator) unregister(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[c] {
		delete(s.conns, c)
		close(c.send)
		s.freeSources = append(s.freeSources, c.source)
	}
}

func (s *ServerCommunicator) readPump(c *conn) {
	defer func() {
		s.unregister(c)
		c.ws.Close()
		s.logger.Info().Str("conn", c.id).Msg("player disconnected")
	}()

	c.ws.SetReadLimit(maxMsgSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Str("conn", c.id).Msg("websocket unexpected close")
			}
			return
		}
		if !c.limiter.Allow() {
			s.logger.Debug().Str("conn", c.id).Msg("input rate exceeded, dropping message")
			continue
		}
		s.messenger.Message(string(message), c.source)
	}
}

func (s *ServerCommunicator) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish sends frame to every player if it differs from the previous one.
func (s *ServerCommunicator) Publish(frame game.View) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error().Err(err).Msg("cannot encode frame")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(data, s.last) {
		return
	}
	s.last = data

	for c := range s.conns {
		select {
		case c.send <- data:
		default:
			s.logger.Warn().Str("conn", c.id).Msg("dropping frame, buffer full")
		}
	}
}

// ConnectionCount returns the number of connected players.
func (s *ServerCommunicator) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}
