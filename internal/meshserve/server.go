// Package meshserve streams generated meshes to websocket clients as
// JSON and regenerates objects on request.
package meshserve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"procworld/internal/config"
	"procworld/internal/scene"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server holds the current mesh of every object and the connected
// clients.
type Server struct {
	log *slog.Logger

	mu      sync.RWMutex
	presets config.Presets
	specs   map[string]config.ObjectSpec
	order   []string
	meshes  map[string]MeshMessage
	// gen counts scene loads; a regenerate started under an older gen
	// is discarded.
	gen uint64

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

// New generates every object up front.
func New(specs []config.ObjectSpec, presets config.Presets, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:     log,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	if err := s.load(specs, presets); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) load(specs []config.ObjectSpec, presets config.Presets) error {
	byName := make(map[string]config.ObjectSpec, len(specs))
	meshes := make(map[string]MeshMessage, len(specs))
	order := make([]string, 0, len(specs))
	for _, spec := range specs {
		obj, err := scene.NewObject(spec, presets)
		if err != nil {
			return fmt.Errorf("meshserve: %w", err)
		}
		byName[spec.Name] = spec
		order = append(order, spec.Name)
		meshes[spec.Name] = encodeObject(obj, spec.Generator, nil)
		s.log.Info("generated", "object", spec.Name, "vertices", obj.Mesh.VertexCount())
	}

	s.mu.Lock()
	s.presets = presets
	s.specs = byName
	s.order = order
	s.meshes = meshes
	s.gen++
	s.mu.Unlock()
	return nil
}

// Reload regenerates the whole scene and pushes every mesh to connected
// clients. On error the previous scene is kept.
func (s *Server) Reload(specs []config.ObjectSpec, presets config.Presets) error {
	if err := s.load(specs, presets); err != nil {
		return err
	}
	for _, m := range s.snapshot() {
		s.broadcast(m)
	}
	return nil
}

func (s *Server) snapshot() []MeshMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MeshMessage, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.meshes[name])
	}
	return out
}

// Handler routes /ws to the websocket endpoint and / to the object list.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("meshserve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("meshserve: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("meshserve: %w", err)
	}
	return nil
}

type indexEntry struct {
	Name      string `json:"name"`
	Generator string `json:"generator"`
	Topology  string `json:"topology"`
	Vertices  int    `json:"vertices"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	entries := make([]indexEntry, 0, len(s.order))
	for _, name := range s.order {
		m := s.meshes[name]
		entries = append(entries, indexEntry{
			Name:      name,
			Generator: m.Generator,
			Topology:  m.Topology,
			Vertices:  len(m.Vertices),
		})
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.log.Warn("index write failed", "err", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMu
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for _, m := range s.snapshot() {
		if err := writeJSON(conn, connMu, m); err != nil {
			s.log.Warn("websocket write failed", "err", err)
			return
		}
	}

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read ended", "err", err)
			}
			return
		}
		if err := s.handleRequest(req); err != nil {
			s.log.Warn("request rejected", "type", req.Type, "object", req.Name, "err", err)
			if werr := writeJSON(conn, connMu, ErrorMessage{Type: TypeError, Error: err.Error()}); werr != nil {
				return
			}
		}
	}
}

func (s *Server) handleRequest(req Request) error {
	switch req.Type {
	case TypeRegenerate:
		msg, err := s.Regenerate(req.Name, req.Seed)
		if err != nil {
			return err
		}
		s.broadcast(msg)
		return nil
	}
	return fmt.Errorf("unknown request type %q", req.Type)
}

// Regenerate rebuilds the named object with seed and stores the result.
func (s *Server) Regenerate(name string, seed int64) (MeshMessage, error) {
	s.mu.RLock()
	spec, ok := s.specs[name]
	presets := s.presets
	gen := s.gen
	s.mu.RUnlock()
	if !ok {
		return MeshMessage{}, fmt.Errorf("unknown object %q", name)
	}

	seeded, ok, err := spec.WithSeed(seed, presets)
	if err != nil {
		return MeshMessage{}, err
	}
	if !ok {
		return MeshMessage{}, fmt.Errorf("object %q (%s) has no seed", name, spec.Generator)
	}
	obj, err := scene.NewObject(seeded, presets)
	if err != nil {
		return MeshMessage{}, err
	}
	msg := encodeObject(obj, spec.Generator, &seed)

	if err := s.store(name, gen, msg); err != nil {
		return MeshMessage{}, err
	}
	s.log.Info("regenerated", "object", name, "seed", seed, "vertices", len(msg.Vertices))
	return msg, nil
}

// store records msg unless the scene was reloaded after gen.
func (s *Server) store(name string, gen uint64, msg MeshMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return fmt.Errorf("object %q was reloaded during regenerate", name)
	}
	s.meshes[name] = msg
	return nil
}

func (s *Server) broadcast(v any) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for conn, mu := range s.clients {
		if err := writeJSON(conn, mu, v); err != nil {
			s.log.Warn("broadcast failed", "remote", conn.RemoteAddr().String(), "err", err)
		}
	}
}

func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	for conn, mu := range s.clients {
		mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		mu.Unlock()
	}
}

func writeJSON(conn *websocket.Conn, mu *sync.Mutex, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
