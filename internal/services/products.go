package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/lib/pq"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
)

type ProductInput struct {
	Slug             string
	Name             string
	ShortDescription string
	Category         *string
	Tags             []string
	Content          string
	Status           string
}

type LinkInput struct {
	AffiliateURL   *string
	DestinationURL *string
	CTAText        *string
	CountryCodes   []string
	Priority       int
	Status         string
}

type ProductService struct {
	Products    repository.ProductRepository
	Recommender Recommender
}

func (s ProductService) ListPublished(ctx context.Context, category string) ([]models.Product, error) {
	return s.Products.List(ctx, repository.ProductFilter{
		Status:   models.StatusPublished,
		Category: strings.TrimSpace(category),
	})
}

func (s ProductService) ListAll(ctx context.Context, status string) ([]models.Product, error) {
	if status != "" {
		if _, ok := statusRank[status]; !ok {
			return nil, ErrBadRequest("Invalid status")
		}
	}
	return s.Products.List(ctx, repository.ProductFilter{Status: status})
}

func (s ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return p, nil
}

func (s ProductService) GetPublished(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	if p.Status != models.StatusPublished {
		return nil, ErrNotFound("Product not found")
	}
	return p, nil
}

func (s ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{Status: models.StatusDraft}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if _, err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s ProductService) Update(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := s.Products.Update(ctx, p); err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return p, nil
}

func applyProduct(p *models.Product, in ProductInput) error {
	name, err := NormalizeRequired(in.Name, "Name is required")
	if err != nil {
		return err
	}
	slug := Slugify(in.Slug)
	if strings.TrimSpace(in.Slug) == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return ErrBadRequest("Slug must contain letters or digits")
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = p.Status
	}
	if _, ok := statusRank[status]; !ok {
		return ErrBadRequest("Invalid status")
	}
	p.Slug = slug
	p.Name = name
	p.ShortDescription = strings.TrimSpace(in.ShortDescription)
	p.Category = OptionalString(in.Category)
	p.Tags = pq.StringArray(CleanTags(in.Tags))
	p.Content = in.Content
	p.Status = status
	return nil
}

func (s ProductService) Links(ctx context.Context, productID int64) ([]models.ProductLink, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.Products.Links(ctx, productID)
}

func (s ProductService) CreateLink(ctx context.Context, productID int64, in LinkInput) (*models.ProductLink, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	link := &models.ProductLink{ProductID: productID, Status: models.LinkActive}
	if err := applyLink(link, in); err != nil {
		return nil, err
	}
	if _, err := s.Products.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s ProductService) UpdateLink(ctx context.Context, linkID int64, in LinkInput) (*models.ProductLink, error) {
	link, err := s.Products.GetLink(ctx, linkID)
	if err != nil {
		return nil, notFoundOr(err, "Link not found")
	}
	if err := applyLink(link, in); err != nil {
		return nil, err
	}
	if err := s.Products.UpdateLink(ctx, link); err != nil {
		return nil, notFoundOr(err, "Link not found")
	}
	return link, nil
}

func applyLink(link *models.ProductLink, in LinkInput) error {
	affiliate := OptionalString(in.AffiliateURL)
	destination := OptionalString(in.DestinationURL)
	if affiliate == nil && destination == nil {
		return ErrBadRequest("An affiliate or destination URL is required")
	}
	for _, raw := range []*string{affiliate, destination} {
		if raw != nil && !isHTTPURL(*raw) {
			return ErrBadRequest("Links must be absolute http(s) URLs")
		}
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = link.Status
	}
	if status != models.LinkActive && status != models.LinkInactive {
		return ErrBadRequest("Invalid link status")
	}
	if in.Priority < 0 {
		return ErrBadRequest("Priority cannot be negative")
	}
	codes := make(pq.StringArray, 0, len(in.CountryCodes))
	for _, code := range CleanTags(in.CountryCodes) {
		code = strings.ToUpper(code)
		if len(code) != 2 {
			return ErrBadRequest("Country codes must be two letters")
		}
		codes = append(codes, code)
	}
	link.AffiliateURL = affiliate
	link.DestinationURL = destination
	link.CTAText = OptionalString(in.CTAText)
	link.CountryCodes = codes
	link.Priority = in.Priority
	link.Status = status
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DefaultLink picks the active link with the lowest priority. links must already be in
// priority order, as returned by the repository.
func DefaultLink(links []models.ProductLink) *models.ProductLink {
	for i := range links {
		if links[i].Status == models.LinkActive && LinkTarget(links[i]) != "" {
			return &links[i]
		}
	}
	return nil
}

// LinkTarget prefers the affiliate URL and falls back to the destination URL.
func LinkTarget(link models.ProductLink) string {
	if link.AffiliateURL != nil && *link.AffiliateURL != "" {
		return *link.AffiliateURL
	}
	if link.DestinationURL != nil {
		return *link.DestinationURL
	}
	return ""
}

// ResolveRedirect returns where /go/{slug} should send the visitor.
func (s ProductService) ResolveRedirect(ctx context.Context, slug string) (string, error) {
	p, err := s.GetPublished(ctx, slug)
	if err != nil {
		return "", err
	}
	links, err := s.Products.Links(ctx, p.ID)
	if err != nil {
		return "", err
	}
	link := DefaultLink(links)
	if link == nil {
		return "", ErrNotFound("No active link for this product")
	}
	return LinkTarget(*link), nil
}

func (s ProductService) Related(ctx context.Context, p *models.Product) []models.Product {
	return s.Recommender.RecommendProducts(ctx, p.Slug, p.Category, p.Tags)
}
