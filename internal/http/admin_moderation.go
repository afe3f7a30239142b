package httpapi

import (
	"net/http"
	"strings"

	"picks-site-backend-go/internal/models"
)

const (
	defaultContactPage = 50
	maxContactPage     = 200
)

// AdminCommentQueue lists comments by status, pending when none is given.
func (s *Server) AdminCommentQueue(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if status == "" {
		status = models.CommentPending
	}
	items, err := s.Comments.Queue(r.Context(), status)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toAdminCommentDTOs(items))
}

func (s *Server) AdminApproveComment(w http.ResponseWriter, r *http.Request) {
	s.moderateComment(w, r, models.CommentApproved)
}

func (s *Server) AdminRejectComment(w http.ResponseWriter, r *http.Request) {
	s.moderateComment(w, r, models.CommentRejected)
}

func (s *Server) moderateComment(w http.ResponseWriter, r *http.Request, to string) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var err error
	if to == models.CommentApproved {
		err = s.Comments.Approve(r.Context(), id)
	} else {
		err = s.Comments.Reject(r.Context(), id)
	}
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	s.Log.Info().Int64("comment_id", id).Str("status", to).Msg("comment moderated")
	WriteData(w, http.StatusOK, map[string]any{"id": id, "status": to})
}

func (s *Server) AdminListContacts(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), defaultContactPage)
	if limit < 1 {
		limit = defaultContactPage
	}
	if limit > maxContactPage {
		limit = maxContactPage
	}
	page := parseInt(r.URL.Query().Get("page"), 1)
	if page < 1 {
		page = 1
	}
	items, err := s.Contacts.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toContactDTOs(items))
}
