package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"conquest/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ClientCommunicator plays over a websocket connection to a ServerCommunicator.
type ClientCommunicator struct {
	ws     *websocket.Conn
	logger zerolog.Logger

	writeMu sync.Mutex
	closed  bool

	mu   sync.RWMutex
	view *game.View

	done chan struct{}
}

// Dial connects to serverURL, either an http(s) base url or a ws(s) url of the
// /ws endpoint.
func Dial(ctx context.Context, serverURL string, logger zerolog.Logger) (*ClientCommunicator, error) {
	wsURL := serverURL
	if strings.HasPrefix(wsURL, "http") {
		wsURL = strings.Replace(wsURL, "http", "ws", 1)
	}
	if !strings.HasSuffix(wsURL, "/ws") {
		wsURL = strings.TrimSuffix(wsURL, "/") + "/ws"
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}

	cc := &ClientCommunicator{
		ws:     ws,
		logger: logger,
		done:   make(chan struct{}),
	}
	go cc.readLoop()
	return cc, nil
}

func (cc *ClientCommunicator) readLoop() {
	defer close(cc.done)
	for {
		_, message, err := cc.ws.ReadMessage()
		if err != nil {
			cc.writeMu.Lock()
			closed := cc.closed
			cc.writeMu.Unlock()
			if !closed {
				cc.logger.Debug().Err(err).Msg("ws read error")
			}
			return
		}
		var frame game.View
		if err := json.Unmarshal(message, &frame); err != nil {
			cc.logger.Debug().Err(err).Msg("ignoring malformed frame")
			continue
		}

		cc.mu.Lock()
		cc.view = &frame
		cc.mu.Unlock()
	}
}

func (cc *ClientCommunicator) GetView() (game.View, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	if cc.view == nil {
		return game.View{}, false
	}
	return *cc.view, true
}

func (cc *ClientCommunicator) SendMessage(message string) error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	if cc.closed {
		return websocket.ErrCloseSent
	}
	return cc.ws.WriteMessage(websocket.TextMessage, []byte(message))
}

// Done is closed once the connection is gone.
func (cc *ClientCommunicator) Done() <-chan struct{} {
	return cc.done
}

// Close closes the connection.
func (cc *ClientCommunicator) Close() error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	if cc.closed {
		return nil
	}
	cc.closed = true
	cc.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return cc.ws.Close()
}
