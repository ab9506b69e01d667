package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return v
}

func createGame(t *testing.T, srv http.Handler, body string) GameState {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/games", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected status 201, got %d: %s", rr.Code, rr.Body)
	}
	return decode[GameState](t, rr)
}

func TestCreateAndGetGame(t *testing.T) {
	srv := New(nil)

	state := createGame(t, srv, "")
	if state.ID == "" {
		t.Fatal("expected a game id")
	}
	if state.FEN != board.StartFEN || state.Turn != board.White || len(state.Pieces) != 32 {
		t.Errorf("unexpected initial state %+v", state)
	}
	if state.Summary != "Turn: White" {
		t.Errorf("summary %q", state.Summary)
	}

	rr := do(t, srv, http.MethodGet, "/api/games/"+state.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected status 200, got %d", rr.Code)
	}
	if got := decode[GameState](t, rr); got.ID != state.ID || got.FEN != state.FEN {
		t.Errorf("got %+v", got)
	}

	if rr := do(t, srv, http.MethodGet, "/api/games/no-such-game", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown game: expected 404, got %d", rr.Code)
	}
}

func TestCreateFromFEN(t *testing.T) {
	srv := New(nil)

	fen := "4k3/8/8/8/8/8/8/R3K3 b Q - 0 1"
	state := createGame(t, srv, `{"fen":"`+fen+`"}`)
	if state.FEN != fen || state.Turn != board.Black || len(state.Pieces) != 3 {
		t.Errorf("unexpected state %+v", state)
	}

	rr := do(t, srv, http.MethodPost, "/api/games", `{"fen":"not a fen"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad fen: expected 400, got %d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/api/games", `{"fen":`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad json: expected 400, got %d", rr.Code)
	}
}

func TestListGamesSorted(t *testing.T) {
	srv := New(nil)

	rr := do(t, srv, http.MethodGet, "/api/games", "")
	if got := decode[map[string][]string](t, rr)["games"]; got == nil || len(got) != 0 {
		t.Errorf("expected an empty list, got %v", got)
	}

	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, createGame(t, srv, "").ID)
	}
	slices.Sort(ids)

	rr = do(t, srv, http.MethodGet, "/api/games", "")
	if got := decode[map[string][]string](t, rr)["games"]; !slices.Equal(got, ids) {
		t.Errorf("games = %v, want %v", got, ids)
	}
}

func TestDestinations(t *testing.T) {
	srv := New(nil)
	id := createGame(t, srv, `{"fen":"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1"}`).ID

	tests := []struct {
		square string
		code   int
		want   []string
	}{
		{"e1", http.StatusOK, []string{"d2", "f2", "d1", "f1"}},
		{"e2", http.StatusOK, []string{}},
		{"a4", http.StatusOK, []string{}},
		{"z9", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		rr := do(t, srv, http.MethodGet, "/api/games/"+id+"/moves/"+tt.square, "")
		if rr.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.square, tt.code, rr.Code)
			continue
		}
		if tt.code != http.StatusOK {
			continue
		}
		resp := decode[struct {
			Destinations []string `json:"destinations"`
		}](t, rr)
		if !slices.Equal(resp.Destinations, tt.want) {
			t.Errorf("%s: destinations %v, want %v", tt.square, resp.Destinations, tt.want)
		}
	}
}

func TestMoveErrors(t *testing.T) {
	srv := New(nil)
	id := createGame(t, srv, "").ID

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad square", `{"from":"e9","to":"e4"}`, http.StatusBadRequest},
		{"bad json", `{"from":`, http.StatusBadRequest},
		{"illegal", `{"from":"a1","to":"a3"}`, http.StatusConflict},
		{"wrong turn", `{"from":"e7","to":"e5"}`, http.StatusConflict},
		{"empty square", `{"from":"e4","to":"e5"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/games/"+id+"/moves", tt.body)
			if rr.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rr.Code, rr.Body)
			}
			if msg := decode[map[string]string](t, rr)["error"]; msg == "" {
				t.Error("expected an error message")
			}
		})
	}

	rr := do(t, srv, http.MethodPost, "/api/games/missing/moves", `{"from":"e2","to":"e4"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown game: expected 404, got %d", rr.Code)
	}
}

func TestSelfCheckConflict(t *testing.T) {
	srv := New(nil)
	id := createGame(t, srv, `{"fen":"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1"}`).ID

	rr := do(t, srv, http.MethodPost, "/api/games/"+id+"/moves", `{"from":"e2","to":"d3"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if msg := decode[map[string]string](t, rr)["error"]; !strings.Contains(msg, board.ErrSelfCheckMove.Error()) {
		t.Errorf("error %q", msg)
	}
}

func TestPlayToCheckmateWithStorage(t *testing.T) {
	store, err := storage.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := New(store)
	id := createGame(t, srv, "").ID

	var last moveResponse
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		body := `{"from":"` + m[:2] + `","to":"` + m[2:] + `"}`
		rr := do(t, srv, http.MethodPost, "/api/games/"+id+"/moves", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", m, rr.Code, rr.Body)
		}
		last = decode[moveResponse](t, rr)
	}

	if last.Move.String() != "d8h4" {
		t.Errorf("last move %v", last.Move)
	}
	if last.State.Summary != "Checkmate - Black wins" || last.State.Status.Winner != board.Black {
		t.Errorf("unexpected final state %+v", last.State.Status)
	}
	if len(last.State.History) != 4 {
		t.Errorf("history %v", last.State.History)
	}

	saved, err := store.LoadGame(id)
	if err != nil {
		t.Fatal(err)
	}
	if !saved.Finished || len(saved.Moves) != 4 {
		t.Errorf("saved game %+v", saved)
	}
	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.BlackWins != 1 {
		t.Errorf("stats %+v", stats)
	}
}

func TestRestore(t *testing.T) {
	store, err := storage.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	open, _ := board.ReplayGame("", []string{"e2e4"})
	done, _ := board.ReplayGame("", []string{"f2f3", "e7e5", "g2g4", "d8h4"})
	if err := store.SaveGame(storage.NewSavedGame("open-game", open)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveGame(storage.NewSavedGame("done-game", done)); err != nil {
		t.Fatal(err)
	}

	srv := New(store)
	n, err := srv.Restore()
	if err != nil || n != 1 {
		t.Fatalf("Restore = %d, %v", n, err)
	}

	rr := do(t, srv, http.MethodGet, "/api/games/open-game", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decode[GameState](t, rr); got.Turn != board.Black {
		t.Errorf("restored turn %v", got.Turn)
	}
	if rr := do(t, srv, http.MethodGet, "/api/games/done-game", ""); rr.Code != http.StatusNotFound {
		t.Errorf("finished game restored: %d", rr.Code)
	}
}

func TestDeleteGame(t *testing.T) {
	srv := New(nil)
	id := createGame(t, srv, "").ID

	if rr := do(t, srv, http.MethodDelete, "/api/games/"+id, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/api/games/"+id, ""); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestDeleteGameRemovesSavedGame(t *testing.T) {
	store, err := storage.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := New(store)
	id := createGame(t, srv, "").ID
	if rr := do(t, srv, http.MethodPost, "/api/games/"+id+"/moves", `{"from":"e2","to":"e4"}`); rr.Code != http.StatusOK {
		t.Fatalf("move: expected 200, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodDelete, "/api/games/"+id, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	if _, err := store.LoadGame(id); !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("LoadGame after delete: %v, want ErrGameNotFound", err)
	}

	restarted := New(store)
	n, err := restarted.Restore()
	if err != nil || n != 0 {
		t.Fatalf("Restore = %d, %v; want 0, nil", n, err)
	}
	if rr := do(t, restarted, http.MethodGet, "/api/games/"+id, ""); rr.Code != http.StatusNotFound {
		t.Errorf("deleted game came back after restart: %d", rr.Code)
	}
}

func TestMoveOnDeletedSessionIsNotSaved(t *testing.T) {
	store, err := storage.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := New(store)
	id := createGame(t, srv, "").ID
	sess, ok := srv.sessions[id]
	if !ok {
		t.Fatalf("session %s not registered", id)
	}
	if rr := do(t, srv, http.MethodDelete, "/api/games/"+id, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	// A move that looked the session up before the delete still holds it.
	sess.mu.Lock()
	if !sess.deleted {
		t.Error("session not marked deleted")
	}
	srv.persist(sess)
	sess.mu.Unlock()

	if _, err := store.LoadGame(id); !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("deleted game written back: %v", err)
	}
}

func TestWebsocketPushesState(t *testing.T) {
	srv := New(nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createGame(t, srv, "").ID

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial GameState
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if initial.ID != id || len(initial.History) != 0 {
		t.Errorf("initial state %+v", initial)
	}

	resp, err := http.Post(ts.URL+"/api/games/"+id+"/moves", "application/json", strings.NewReader(`{"from":"e2","to":"e4"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("move: expected 200, got %d", resp.StatusCode)
	}

	var update GameState
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if update.Turn != board.Black || len(update.History) != 1 || update.History[0].String() != "e2e4" {
		t.Errorf("update %+v", update)
	}
}
