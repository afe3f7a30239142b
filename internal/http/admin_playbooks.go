package httpapi

import (
	"net/http"
	"strings"

	"picks-site-backend-go/internal/services"
)

type PlaybookRequest struct {
	Slug              string  `json:"slug"`
	Title             string  `json:"title"`
	Summary           string  `json:"summary"`
	Content           string  `json:"content"`
	CategoryID        *int64  `json:"categoryId"`
	Status            string  `json:"status"`
	Access            string  `json:"access"`
	HasAffiliateLinks bool    `json:"hasAffiliateLinks"`
	PrimaryProductID  *int64  `json:"primaryProductId"`
	AudioURL          *string `json:"audioUrl"`
	AudioDuration     *int    `json:"audioDuration"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type TagIDsRequest struct {
	TagIDs []int64 `json:"tagIds"`
}

type AdminPlaybookDTO struct {
	PlaybookDTO
	Tags []TagDTO `json:"tags"`
}

func (req PlaybookRequest) input() services.PlaybookInput {
	return services.PlaybookInput{
		Slug:              req.Slug,
		Title:             req.Title,
		Summary:           req.Summary,
		Content:           req.Content,
		CategoryID:        req.CategoryID,
		Status:            req.Status,
		Access:            req.Access,
		HasAffiliateLinks: req.HasAffiliateLinks,
		PrimaryProductID:  req.PrimaryProductID,
		AudioURL:          req.AudioURL,
		AudioDuration:     req.AudioDuration,
	}
}

func (s *Server) AdminListPlaybooks(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	items, err := s.Playbooks.ListAll(r.Context(), status)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toPlaybookCards(items))
}

func (s *Server) AdminGetPlaybook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.Playbooks.Get(r.Context(), id)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	tags, err := s.Playbooks.TagsFor(r.Context(), id)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, AdminPlaybookDTO{PlaybookDTO: toPlaybookDTO(*p), Tags: toTagDTOs(tags)})
}

func (s *Server) AdminCreatePlaybook(w http.ResponseWriter, r *http.Request) {
	var req PlaybookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Playbooks.Create(r.Context(), req.input())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusCreated, toPlaybookDTO(*p))
}

func (s *Server) AdminUpdatePlaybook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req PlaybookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Playbooks.Update(r.Context(), id, req.input())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toPlaybookDTO(*p))
}

func (s *Server) AdminSetPlaybookStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Playbooks.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	s.Log.Info().Int64("playbook_id", id).Str("status", p.Status).Msg("playbook status changed")
	WriteData(w, http.StatusOK, toPlaybookDTO(*p))
}

func (s *Server) AdminSetPlaybookTags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req TagIDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tags, err := s.Playbooks.SetTags(r.Context(), id, req.TagIDs)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toTagDTOs(tags))
}
