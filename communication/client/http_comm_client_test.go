package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conquest/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// echoServer sends one frame on connect, then answers every message with a frame
// whose SetupPhase is the message.
func echoServer(t *testing.T) *httptest.Server {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		if err := ws.WriteJSON(game.View{Mode: "Setup"}); err != nil {
			return
		}
		for {
			_, message, err := ws.ReadMessage()
			if err != nil {
				return
			}
			ws.WriteMessage(websocket.TextMessage, []byte("not json"))
			if err := ws.WriteJSON(game.View{Mode: "Setup", SetupPhase: string(message)}); err != nil {
				return
			}
		}
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClientCommunicator(t *testing.T) {
	t.Run("dials http and ws urls", func(t *testing.T) {
		ts := echoServer(t)
		for _, url := range []string{ts.URL, ts.URL + "/", "ws" + ts.URL[len("http"):] + "/ws"} {
			cc, err := Dial(context.Background(), url, zerolog.Nop())
			require.NoError(t, err, url)
			require.NoError(t, cc.Close())
		}
	})

	t.Run("keeps the latest valid frame", func(t *testing.T) {
		ts := echoServer(t)
		cc, err := Dial(context.Background(), ts.URL, zerolog.Nop())
		require.NoError(t, err)
		defer cc.Close()

		require.Eventually(t, func() bool {
			_, ok := cc.GetView()
			return ok
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, cc.SendMessage("ClaimTerritories"))
		require.Eventually(t, func() bool {
			v, _ := cc.GetView()
			return v.SetupPhase == "ClaimTerritories"
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("done after the server goes away", func(t *testing.T) {
		upgrader := websocket.Upgrader{}
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			ws.WriteJSON(game.View{Mode: "Setup"})
			ws.Close()
		}))
		defer ts.Close()

		cc, err := Dial(context.Background(), ts.URL, zerolog.Nop())
		require.NoError(t, err)

		select {
		case <-cc.Done():
		case <-time.After(time.Second):
			t.Fatal("connection should be done")
		}
		require.NoError(t, cc.Close())
		require.Error(t, cc.SendMessage("3"))
	})

	t.Run("dial failure", func(t *testing.T) {
		_, err := Dial(context.Background(), "ws://127.0.0.1:1/ws", zerolog.Nop())

		require.ErrorContains(t, err, "ws dial")
	})
}
