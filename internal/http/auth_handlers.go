package httpapi

import (
	"html/template"
	"net/http"
	"strings"
)

type LoginRequest struct {
	Password string `json:"password"`
	Next     string `json:"next"`
}

type LoginResponse struct {
	Next string `json:"next"`
}

type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	IssuedAt      string `json:"issuedAt,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin sign in</title></head>
<body>
<form method="post" action="/admin/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <label>Password <input type="password" name="password" autofocus required></label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`))

func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginPage.Execute(w, struct{ Next string }{Next: safeNext(r.URL.Query().Get("next"))})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	log := s.Log.With().Str("handler", "login").Logger()
	isForm := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

	var req LoginRequest
	if isForm {
		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		req.Password = r.PostFormValue("password")
		req.Next = r.PostFormValue("next")
	} else if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.Auth.VerifyPassword(req.Password); err != nil {
		log.Warn().Str("ip", s.proxies.clientIP(r)).Msg("admin login rejected")
		writeAdminError(w, log, err)
		return
	}
	token, err := s.Auth.Issue()
	if err != nil {
		writeAdminError(w, log, err)
		return
	}
	s.setSessionCookies(w, token)
	log.Info().Str("ip", s.proxies.clientIP(r)).Msg("admin logged in")

	next := safeNext(req.Next)
	if isForm {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	WriteData(w, http.StatusOK, LoginResponse{Next: next})
}

// Logout only drops the cookies. Issued tokens stay valid until they expire.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookies(w)
	WriteData(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := CurrentIdentity(r)
	resp := MeResponse{Authenticated: ok}
	if ok && !identity.IssuedAt.IsZero() {
		resp.IssuedAt = formatTime(identity.IssuedAt)
		resp.ExpiresAt = formatTime(identity.ExpiresAt)
	}
	WriteData(w, http.StatusOK, resp)
}
