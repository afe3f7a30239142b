package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/services"
)

type CommentRequest struct {
	AuthorName  string  `json:"authorName"`
	AuthorEmail *string `json:"authorEmail"`
	Content     string  `json:"content"`
}

type ContactRequest struct {
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	Message      string   `json:"message"`
	Phone        *string  `json:"phone"`
	CompanyName  *string  `json:"companyName"`
	Website      *string  `json:"website"`
	InterestedIn []string `json:"interestedIn"`
	RoleTitle    *string  `json:"roleTitle"`
}

type ContactResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

func (s *Server) PublicCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.ListCategories(r.Context())
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toCategoryDTOs(items))
}

func (s *Server) PublicTags(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.ListTags(r.Context())
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toTagDTOs(items))
}

func (s *Server) PublicPlaybooks(w http.ResponseWriter, r *http.Request) {
	query := services.PlaybookQuery{
		CategorySlug: r.URL.Query().Get("category"),
		TagSlug:      r.URL.Query().Get("tag"),
		Page:         parseInt(r.URL.Query().Get("page"), 1),
		Limit:        parseInt(r.URL.Query().Get("limit"), 0),
	}
	items, err := s.Playbooks.ListPublished(r.Context(), query)
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	WriteData(w, http.StatusOK, PlaybookListResponse{
		Items: toPlaybookCards(items),
		Page:  page,
		Size:  len(items),
	})
}

// PublicPlaybookDetail loads tags, related playbooks, comments and the category side by
// side once the playbook itself is known to be public.
func (s *Server) PublicPlaybookDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.Playbooks.GetPublished(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	html, err := services.RenderMarkdown(p.Content)
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}

	var (
		tags     []models.Tag
		related  []models.Playbook
		comments []models.Comment
		category *models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tags, err = s.Playbooks.TagsFor(gctx, p.ID); err != nil {
			s.Log.Warn().Err(err).Int64("playbook_id", p.ID).Msg("playbook tag lookup failed")
			tags, related = nil, nil
			return nil
		}
		related = s.Playbooks.Related(gctx, p, tags)
		return nil
	})
	g.Go(func() error {
		var err error
		comments, err = s.Comments.ListApproved(gctx, p.ID)
		return err
	})
	if p.CategoryID != nil {
		g.Go(func() error {
			c, err := s.Catalog.Category(gctx, *p.CategoryID)
			if err != nil {
				s.Log.Warn().Err(err).Int64("category_id", *p.CategoryID).Msg("playbook category lookup failed")
				return nil
			}
			category = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writePublicError(w, s.Log, err)
		return
	}

	detail := PlaybookDetailDTO{
		PlaybookDTO: toPlaybookDTO(*p),
		HTML:        html,
		Tags:        toTagDTOs(tags),
		Related:     toPlaybookCards(related),
		Comments:    toCommentDTOs(comments),
	}
	if category != nil {
		dto := toCategoryDTO(*category)
		detail.Category = &dto
	}
	WriteData(w, http.StatusOK, detail)
}

func (s *Server) PublicComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := s.Comments.ListApproved(r.Context(), id)
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toCommentDTOs(items))
}

// SubmitComment queues a comment for moderation. Store failures come back verbatim.
func (s *Server) SubmitComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	comment, err := s.Comments.Submit(r.Context(), services.CommentInput{
		PlaybookID:  chi.URLParam(r, "id"),
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	})
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusCreated, toAdminCommentDTOs([]models.Comment{*comment})[0])
}

func (s *Server) PublicPicks(w http.ResponseWriter, r *http.Request) {
	items, err := s.Products.ListPublished(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	WriteData(w, http.StatusOK, toProductCards(items))
}

func (s *Server) PublicPickDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.Products.GetPublished(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	html, err := services.RenderMarkdown(p.Content)
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	links, err := s.Products.Links(ctx, p.ID)
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	active := make([]models.ProductLink, 0, len(links))
	for _, link := range links {
		if link.Status == models.LinkActive {
			active = append(active, link)
		}
	}
	detail := ProductDetailDTO{
		ProductDTO: toProductDTO(*p),
		HTML:       html,
		Links:      toLinkDTOs(active),
		Related:    toProductCards(s.Products.Related(ctx, p)),
	}
	if link := services.DefaultLink(active); link != nil {
		dto := toLinkDTO(*link)
		detail.DefaultLink = &dto
	}
	WriteData(w, http.StatusOK, detail)
}

func (s *Server) PickRedirect(w http.ResponseWriter, r *http.Request) {
	target, err := s.Products.ResolveRedirect(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// SubmitContact answers as soon as the lead is stored. Webhook delivery happens afterwards
// and never changes the response.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := s.Contacts.Submit(r.Context(), services.ContactInput{
		FullName:     req.FullName,
		Email:        strings.TrimSpace(req.Email),
		Message:      req.Message,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		Website:      req.Website,
		RoleTitle:    req.RoleTitle,
		InterestedIn: req.InterestedIn,
	})
	if err != nil {
		writePublicError(w, s.Log, err)
		return
	}
	WriteJSON(w, http.StatusOK, ContactResponse{OK: true, ID: id})
}
