package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/nocturne/engine"
	"github.com/minaorangina/nocturne/game"
	"github.com/minaorangina/nocturne/store"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Opts struct {
	// StaticDir is served at the root. Missing files are a 404.
	StaticDir string
	Logger    *logrus.Entry
}

// GameServer is a game server
type GameServer struct {
	store     store.RoomStore
	log       *logrus.Entry
	logWriter io.Closer
	http.Server
}

// NewServer creates a new GameServer
func NewServer(roomStore store.RoomStore, opts Opts) *GameServer {
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &GameServer{
		store: roomStore,
		log:   opts.Logger,
	}

	router := http.NewServeMux()
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))
	router.Handle("/room/", http.HandlerFunc(s.HandleFindRoom))
	router.Handle("/healthz", http.HandlerFunc(s.HandleHealth))
	if opts.StaticDir != "" {
		router.Handle("/", http.FileServer(http.Dir(opts.StaticDir)))
	}

	accessLog := opts.Logger.WriterLevel(logrus.InfoLevel)
	s.logWriter = accessLog

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)

	s.Handler = handlers.LoggingHandler(accessLog,
		handlers.RecoveryHandler(handlers.RecoveryLogger(opts.Logger))(cors(router)),
	)

	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// Close stops the server straight away and releases the access log
func (g *GameServer) Close() error {
	err := g.Server.Close()
	if logErr := g.logWriter.Close(); err == nil {
		err = logErr
	}
	return err
}

func (g *GameServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// HandleFindRoom describes an open room
func (g *GameServer) HandleFindRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	roomID := strings.TrimPrefix(r.URL.Path, "/room/")
	if roomID == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing room ID"))
		return
	}

	room := g.store.FindRoom(roomID)
	if room == nil {
		writeUnknownRoom(w, roomID)
		return
	}

	info, err := room.Info()
	if errors.Is(err, engine.ErrRoomClosed) {
		writeUnknownRoom(w, roomID)
		return
	}
	if err != nil {
		g.log.WithError(err).Error("could not describe room")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	responseBytes, err := json.Marshal(info)
	if err != nil {
		g.log.WithError(err).Error("could not encode room")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.Write(responseBytes)
}

// HandleWS upgrades the connection and seats the player in the room they ask for.
// The connection holds the seat until it closes.
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		g.log.WithError(err).Warn("could not upgrade to websocket")
		return
	}

	player := engine.NewWSPlayer(engine.NewID(), conn, g.log)

	join, err := player.AwaitJoin()
	if err != nil {
		g.log.WithField("player", player.ID()).WithError(err).Debug("connection closed before joining")
		player.Close()
		return
	}

	room, err := g.store.Join(join.RoomID, player)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"player": player.ID(),
			"room":   join.RoomID,
		}).WithError(err).Info("join refused")

		player.Send(game.BuildErrorMessage(player.ID(), err))
		player.Close()
		return
	}

	player.ReadPump(room)
}

func writeUnknownRoom(w http.ResponseWriter, roomID string) {
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("unknown room ID '" + roomID + "'"))
}
