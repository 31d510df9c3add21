// Package server exposes the engine over WebSocket. Each frame carries
// one turn: the client sends {player, command}, the server answers with
// the ordered reply list for that turn.
package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fardog/advtxt/engine"
	"github.com/fardog/advtxt/types"
)

// Request is one inbound turn submission.
type Request struct {
	Player  string `json:"player"`
	Command string `json:"command"`
}

// Response is the completed turn's replies, in emission order.
type Response struct {
	Player  string   `json:"player"`
	Replies []string `json:"replies"`
}

// Server accepts WebSocket clients and runs their turns.
type Server struct {
	engine   *engine.Engine
	log      *log.Logger
	upgrader websocket.Upgrader
}

// New creates a server over the given engine.
func New(eng *engine.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		engine: eng,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the HTTP handler serving the WebSocket endpoint at
// /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving WebSocket clients on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Printf("advtxt: listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleWS runs one connection: read a turn, process it, write the
// replies. Turns on a single connection are processed in order.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("advtxt: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Printf("advtxt: websocket read: %v", err)
			}
			return
		}
		if req.Player == "" || req.Command == "" {
			s.log.Printf("advtxt: dropping frame with empty player or command")
			continue
		}

		s.engine.Submit(&types.Command{
			Raw:        req.Command,
			PlayerName: req.Player,
			Done: func(cmd *types.Command) {
				resp := Response{Player: cmd.PlayerName, Replies: cmd.Replies}
				if resp.Replies == nil {
					resp.Replies = []string{}
				}
				if err := conn.WriteJSON(resp); err != nil {
					s.log.Printf("advtxt: websocket write for %s: %v", cmd.PlayerName, err)
				}
			},
		})
	}
}
