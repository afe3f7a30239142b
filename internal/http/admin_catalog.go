package httpapi

import (
	"net/http"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

type TagRequest struct {
	Label string `json:"label"`
}

func (s *Server) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.ListCategories(r.Context())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toCategoryDTOs(items))
}

func (s *Server) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := s.Catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusCreated, toCategoryDTO(*category))
}

func (s *Server) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := s.Catalog.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toCategoryDTO(*category))
}

func (s *Server) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Catalog.DeleteCategory(r.Context(), id); err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]int64{"deleted": id})
}

func (s *Server) AdminListTags(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.ListTags(r.Context())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toTagDTOs(items))
}

func (s *Server) AdminCreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.Catalog.CreateTag(r.Context(), req.Label)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusCreated, toTagDTO(*tag))
}

func (s *Server) AdminUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.Catalog.UpdateTag(r.Context(), id, req.Label)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toTagDTO(*tag))
}

func (s *Server) AdminDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Catalog.DeleteTag(r.Context(), id); err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]int64{"deleted": id})
}
