// Command main runs a computer player against a remote game server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conquest/communication/client"
	"conquest/game"
	"conquest/logger"
	"conquest/player"

	"github.com/rs/zerolog/log"
)

func main() {
	serverURL := flag.String("server", "ws://localhost:8080/ws", "Game server url")
	color := flag.Int("color", int(game.Red), "Colour id to play (0-5)")
	host := flag.Int("host", 0, "Pick this player count when asked (0 to leave it to others)")
	think := flag.Duration("think", 250*time.Millisecond, "Time between moves")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger.Init(*level, false)

	if !game.Color(*color).Valid() {
		log.Fatal().Int("color", *color).Msg("unknown colour")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	comm, err := client.Dial(dialCtx, *serverURL, logger.Component("client"))
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("server", *serverURL).Msg("cannot connect")
	}
	defer comm.Close()

	options := []player.Option{
		player.WithThinkTime(*think),
		player.WithLogger(logger.Component("player")),
	}
	if *host > 0 {
		options = append(options, player.AsHost(*host))
	}
	var controller player.Controller = player.NewPlayer(game.Color(*color), comm, options...)

	// Stop playing when the server goes away.
	ctx, cancelPlay := context.WithCancel(ctx)
	go func() {
		select {
		case <-comm.Done():
			log.Warn().Msg("server closed the connection")
		case <-ctx.Done():
		}
		cancelPlay()
	}()

	log.Info().Stringer("color", game.Color(*color)).Str("server", *serverURL).Msg("playing")
	controller.Run(ctx)
}
