package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/minaorangina/nocturne/engine"
	utils "github.com/minaorangina/nocturne/internal"
	"github.com/minaorangina/nocturne/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpyStore(t *testing.T) *store.InMemoryRoomStore {
	t.Helper()

	s := store.NewInMemoryRoomStore(func(roomID string, onClose func(engine.GameEngine)) (engine.GameEngine, error) {
		return engine.NewSpyEngine(roomID), nil
	})
	t.Cleanup(s.Close)

	return s
}

func newGetRoomRequest(roomID string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/room/"+roomID, nil)
}

// panickyStore blows up when asked about a room
type panickyStore struct {
	store.RoomStore
}

func (panickyStore) FindRoom(roomID string) engine.GameEngine {
	panic("no rooms here")
}

func TestServerHealth(t *testing.T) {
	server := NewServer(newSpyStore(t), Opts{Logger: quietLogger()})
	defer server.Close()

	response := httptest.NewRecorder()
	server.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assertStatus(t, response.Code, http.StatusOK)
	utils.AssertEqual(t, response.Body.String(), "ok")
}

func TestServerGETRoom(t *testing.T) {
	t.Run("describes an open room", func(t *testing.T) {
		t.Log("Given a room with one player waiting")
		s := newSpyStore(t)
		_, err := s.Join("A", engine.APlayer("Ghoul"))
		require.NoError(t, err)

		server := NewServer(s, Opts{Logger: quietLogger()})
		defer server.Close()

		t.Log("When the room is requested")
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetRoomRequest("A"))

		t.Log("Then the room is described")
		assertStatus(t, response.Code, http.StatusOK)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))

		var got engine.RoomInfo
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		utils.AssertEqual(t, got, engine.RoomInfo{RoomID: "A", Status: "waiting", Players: []string{"Ghoul"}})
	})

	t.Run("returns a 404 if the room doesn't exist", func(t *testing.T) {
		server := NewServer(newSpyStore(t), Opts{Logger: quietLogger()})
		defer server.Close()

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetRoomRequest("nope"))

		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("returns a 404 if the room has closed", func(t *testing.T) {
		s := newTestStore(t)
		room, err := s.Join("A", engine.APlayer("Ghoul"))
		require.NoError(t, err)
		room.Close()
		<-room.Done()

		server := NewServer(s, Opts{Logger: quietLogger()})
		defer server.Close()

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetRoomRequest("A"))

		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("requires a room ID", func(t *testing.T) {
		server := NewServer(newSpyStore(t), Opts{Logger: quietLogger()})
		defer server.Close()

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetRoomRequest(""))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("only answers GET", func(t *testing.T) {
		server := NewServer(newSpyStore(t), Opts{Logger: quietLogger()})
		defer server.Close()

		response := httptest.NewRecorder()
		server.ServeHTTP(response, httptest.NewRequest(http.MethodPost, "/room/A", nil))

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestServerMiddleware(t *testing.T) {
	t.Run("allows any origin", func(t *testing.T) {
		server := NewServer(newSpyStore(t), Opts{Logger: quietLogger()})
		defer server.Close()

		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		request.Header.Set("Origin", "http://haunted.example")
		response := httptest.NewRecorder()
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("a panicking handler becomes a 500", func(t *testing.T) {
		server := NewServer(panickyStore{}, Opts{Logger: quietLogger()})
		defer server.Close()

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetRoomRequest("A"))

		assertStatus(t, response.Code, http.StatusInternalServerError)
	})
}

func TestServerStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>nocturne</h1>"), 0o644))

	server := NewServer(newSpyStore(t), Opts{StaticDir: dir, Logger: quietLogger()})
	defer server.Close()

	t.Run("serves the index", func(t *testing.T) {
		response := httptest.NewRecorder()
		server.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/", nil))

		assertStatus(t, response.Code, http.StatusOK)
		assert.Contains(t, response.Body.String(), "nocturne")
	})

	t.Run("missing files are a 404", func(t *testing.T) {
		response := httptest.NewRecorder()
		server.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/crypt.js", nil))

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}
