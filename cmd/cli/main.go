package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/minaorangina/nocturne/engine"
	"github.com/minaorangina/nocturne/game"
	"github.com/minaorangina/nocturne/protocol"
	"github.com/sirupsen/logrus"
)

var names = []string{"Ghoul", "Wraith", "Banshee", "Lich", "Revenant"}

var ErrTimedOut = errors.New("game did not finish in time")

func main() {
	players := flag.Int("players", 3, "number of bots at the table (2-5)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "shuffle seed")
	timeout := flag.Duration("timeout", 30*time.Second, "give up after this long")
	verbose := flag.Bool("v", false, "log the room's events")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(os.Stdout, *players, *seed, *timeout, logrus.NewEntry(logger)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run plays a whole game between bots, narrating it from the first seat
func run(out io.Writer, players int, seed int64, timeout time.Duration, log *logrus.Entry) error {
	if players < 2 || players > len(names) {
		return fmt.Errorf("players must be between 2 and %d, got %d", len(names), players)
	}

	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		RoomID: "cli",
		Game: game.Opts{
			Rand:        rand.New(rand.NewSource(seed)),
			TurnTimeout: game.DefaultTurnTimeout,
			MaxSeats:    len(names),
		},
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer ge.Close()

	bots := []*engine.BotPlayer{}
	for i := 0; i < players; i++ {
		bot := engine.NewBotPlayer(engine.NewID(), names[i], out)
		bot.Narrate = i == 0
		if err := ge.Join(bot); err != nil {
			return err
		}
		go bot.Play(ge)
		bots = append(bots, bot)
	}

	engine.SendText(out, "seed %d, %d players\n", seed, players)
	ge.Receive(protocol.InboundMessage{PlayerID: bots[0].ID(), Command: protocol.StartGame})

	select {
	case <-bots[0].Finished():
		return nil
	case <-time.After(timeout):
		return ErrTimedOut
	}
}
