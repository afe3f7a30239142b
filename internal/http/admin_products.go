package httpapi

import (
	"net/http"
	"strings"

	"picks-site-backend-go/internal/services"
)

type ProductRequest struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription"`
	Category         *string  `json:"category"`
	Tags             []string `json:"tags"`
	Content          string   `json:"content"`
	Status           string   `json:"status"`
}

type LinkRequest struct {
	AffiliateURL   *string  `json:"affiliateUrl"`
	DestinationURL *string  `json:"destinationUrl"`
	CTAText        *string  `json:"ctaText"`
	CountryCodes   []string `json:"countryCodes"`
	Priority       int      `json:"priority"`
	Status         string   `json:"status"`
}

func (req ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Slug:             req.Slug,
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Tags:             req.Tags,
		Content:          req.Content,
		Status:           req.Status,
	}
}

func (req LinkRequest) input() services.LinkInput {
	return services.LinkInput{
		AffiliateURL:   req.AffiliateURL,
		DestinationURL: req.DestinationURL,
		CTAText:        req.CTAText,
		CountryCodes:   req.CountryCodes,
		Priority:       req.Priority,
		Status:         req.Status,
	}
}

func (s *Server) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	items, err := s.Products.ListAll(r.Context(), status)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toProductCards(items))
}

func (s *Server) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Products.Create(r.Context(), req.input())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusCreated, toProductDTO(*p))
}

func (s *Server) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Products.Update(r.Context(), id, req.input())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toProductDTO(*p))
}

func (s *Server) AdminProductLinks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	links, err := s.Products.Links(r.Context(), id)
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toLinkDTOs(links))
}

func (s *Server) AdminCreateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req LinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	link, err := s.Products.CreateLink(r.Context(), id, req.input())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusCreated, toLinkDTO(*link))
}

func (s *Server) AdminUpdateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "linkId")
	if !ok {
		return
	}
	var req LinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	link, err := s.Products.UpdateLink(r.Context(), id, req.input())
	if err != nil {
		writeAdminError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toLinkDTO(*link))
}
