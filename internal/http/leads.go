package httpapi

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// LeadSocket streams contact events to an authenticated admin until the client goes away.
func (s *Server) LeadSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.sameOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Leads.Add(conn)
	defer func() {
		s.Leads.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// sameOrigin accepts browsers on this host or a configured CORS origin. Clients that send
// no Origin header are not browsers and are let through.
func (s *Server) sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, allowed := range s.Config.CorsOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
