// Package server exposes games over HTTP. Each game is a session with its own
// lock; clients may follow a game over a websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/maps"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

const maxJSONBodyBytes int64 = 1 << 20

// session is one game and the websocket clients following it.
type session struct {
	mu       sync.Mutex
	id       string
	game     *board.Game
	clients  map[*websocket.Conn]struct{}
	recorded bool
	deleted  bool
}

// Server routes API requests to game sessions.
type Server struct {
	router   *mux.Router
	upgrader websocket.Upgrader
	store    *storage.Storage // optional

	sessionsMu sync.RWMutex
	sessions   map[string]*session

	srvMu sync.Mutex
	srv   *http.Server
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

// New creates a server. store may be nil; when set, games are saved after
// every applied move and finished games are added to the stats.
func New(store *storage.Storage) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		store:    store,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.router.NotFoundHandler = stdoutLogger(http.HandlerFunc(notFoundHandler))
	s.router.Use(stdoutLogger)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", s.withJSON(s.handleCreateGame)).Methods(http.MethodPost)
	api.HandleFunc("/games", s.withJSON(s.handleListGames)).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.withJSON(s.handleGetGame)).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.withJSON(s.handleDeleteGame)).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/moves/{square}", s.withJSON(s.handleDestinations)).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/moves", s.withJSON(s.handleMove)).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/ws", s.handleWebsocket)

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen serves on addr until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the HTTP server down and disconnects websocket clients.
func (s *Server) Close(ctx context.Context) error {
	s.sessionsMu.RLock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		for conn := range sess.clients {
			conn.Close()
		}
		sess.mu.Unlock()
	}
	s.sessionsMu.RUnlock()

	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// ---- sessions ----

// addSession registers g under a fresh petname id.
func (s *Server) addSession(g *board.Game) *session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	id := petname.Generate(2, "-")
	for n := 2; s.sessions[id] != nil; n++ {
		id = fmt.Sprintf("%s-%d", petname.Generate(2, "-"), n)
	}

	sess := &session{
		id:      id,
		game:    g,
		clients: make(map[*websocket.Conn]struct{}),
	}
	s.sessions[id] = sess
	return sess
}

// Restore reopens every saved game that has not finished. Games that no
// longer replay are skipped with a warning.
func (s *Server) Restore() (int, error) {
	if s.store == nil {
		return 0, nil
	}
	games, err := s.store.ListGames()
	if err != nil {
		return 0, err
	}

	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	n := 0
	for _, sg := range games {
		if sg.Finished || s.sessions[sg.ID] != nil {
			continue
		}
		g, err := sg.Replay()
		if err != nil {
			log.Printf("Warning: skipping saved game %s: %v", sg.ID, err)
			continue
		}
		s.sessions[sg.ID] = &session{
			id:      sg.ID,
			game:    g,
			clients: make(map[*websocket.Conn]struct{}),
		}
		n++
	}
	return n, nil
}

func (s *Server) session(r *http.Request) (*session, bool) {
	id := mux.Vars(r)["id"]
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// ---- JSON helpers ----

func (s *Server) withJSON(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

// moveErrorStatus maps a move error onto an HTTP status.
func moveErrorStatus(err error) int {
	switch {
	case errors.Is(err, board.ErrInvalidPosition):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrIllegalMove),
		errors.Is(err, board.ErrSelfCheckMove),
		errors.Is(err, board.ErrWrongTurn),
		errors.Is(err, board.ErrEmptySquare):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ---- handlers ----

type createRequest struct {
	FEN string `json:"fen"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	g := board.NewGame()
	if req.FEN != "" {
		var err error
		if g, err = board.NewGameFromFEN(req.FEN); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sess := s.addSession(g)
	sess.mu.Lock()
	state := newGameState(sess.id, sess.game)
	s.persist(sess)
	sess.mu.Unlock()

	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.sessionsMu.RLock()
	ids := maps.Keys(s.sessions)
	s.sessionsMu.RUnlock()

	slices.Sort(ids)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"games": ids})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	sess.mu.Lock()
	state := newGameState(sess.id, sess.game)
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	s.sessionsMu.Lock()
	delete(s.sessions, sess.id)
	s.sessionsMu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.deleted = true
	for conn := range sess.clients {
		conn.Close()
	}
	sess.clients = map[*websocket.Conn]struct{}{}

	if s.store != nil {
		if err := s.store.DeleteGame(sess.id); err != nil && !errors.Is(err, storage.ErrGameNotFound) {
			log.Printf("Warning: failed to delete saved game %s: %v", sess.id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

type destinationsResponse struct {
	Square       board.Square   `json:"square"`
	Destinations []board.Square `json:"destinations"`
}

func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	sq, err := board.ParseSquare(mux.Vars(r)["square"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := destinationsResponse{Square: sq, Destinations: []board.Square{}}
	sess.mu.Lock()
	if idx, ok := sess.game.Board().Occupant(sq); ok {
		resp.Destinations = append(resp.Destinations, sess.game.SafeDestinations(idx)...)
	}
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type moveResponse struct {
	Move  board.MoveRecord `json:"move"`
	State GameState        `json:"state"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	from, err := board.ParseSquare(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := board.ParseSquare(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.deleted {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	rec, err := sess.game.Move(from, to)
	if err != nil {
		writeError(w, moveErrorStatus(err), err.Error())
		return
	}

	state := newGameState(sess.id, sess.game)
	s.persist(sess)
	s.recordResult(sess, state.Status)
	sess.broadcast(state)

	writeJSON(w, http.StatusOK, moveResponse{Move: rec, State: state})
}

// persist saves the session's game if storage is configured and the
// session has not been deleted. The caller holds sess.mu.
func (s *Server) persist(sess *session) {
	if s.store == nil || sess.deleted {
		return
	}
	if err := s.store.SaveGame(storage.NewSavedGame(sess.id, sess.game)); err != nil {
		log.Printf("Warning: failed to save game %s: %v", sess.id, err)
	}
}

// recordResult adds a finished game to the stats once.
// The caller holds sess.mu.
func (s *Server) recordResult(sess *session, status board.Status) {
	if s.store == nil || sess.recorded || !status.GameOver() {
		return
	}
	sess.recorded = true
	err := s.store.RecordGame(storage.GameResult{
		Winner:    status.Winner,
		Checkmate: true,
		Moves:     len(sess.game.History()),
	})
	if err != nil {
		log.Printf("Warning: failed to record result of %s: %v", sess.id, err)
	}
}

// ---- websocket ----

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}

	sess.mu.Lock()
	sess.clients[conn] = struct{}{}
	err = conn.WriteJSON(newGameState(sess.id, sess.game))
	sess.mu.Unlock()
	if err != nil {
		sess.drop(conn)
		return
	}

	// Clients only listen; reading detects the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sess.drop(conn)
				return
			}
		}
	}()
}

// broadcast sends state to every client. The caller holds sess.mu.
func (sess *session) broadcast(state GameState) {
	for conn := range sess.clients {
		if err := conn.WriteJSON(state); err != nil {
			log.Printf("Warning: dropping websocket client of %s: %v", sess.id, err)
			conn.Close()
			delete(sess.clients, conn)
		}
	}
}

func (sess *session) drop(conn *websocket.Conn) {
	sess.mu.Lock()
	delete(sess.clients, conn)
	sess.mu.Unlock()
	conn.Close()
}
