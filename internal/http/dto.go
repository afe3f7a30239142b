package httpapi

import (
	"time"

	"picks-site-backend-go/internal/models"
)

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TagDTO struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

type PlaybookCardDTO struct {
	ID                int64   `json:"id"`
	Slug              string  `json:"slug"`
	Title             string  `json:"title"`
	Summary           string  `json:"summary"`
	CategoryID        *int64  `json:"categoryId"`
	Status            string  `json:"status"`
	Access            string  `json:"access"`
	PublishedAt       *string `json:"publishedAt"`
	UpdatedAt         string  `json:"updatedAt"`
	HasAffiliateLinks bool    `json:"hasAffiliateLinks"`
	AudioURL          *string `json:"audioUrl"`
	AudioDuration     *int    `json:"audioDuration"`
	ViewCount         int     `json:"viewCount"`
	LikeCount         int     `json:"likeCount"`
	CommentCount      int     `json:"commentCount"`
	AverageRating     float64 `json:"averageRating"`
}

type PlaybookDTO struct {
	PlaybookCardDTO
	Content          string `json:"content"`
	PrimaryProductID *int64 `json:"primaryProductId"`
}

type PlaybookDetailDTO struct {
	PlaybookDTO
	HTML     string            `json:"html"`
	Category *CategoryDTO      `json:"category"`
	Tags     []TagDTO          `json:"tags"`
	Related  []PlaybookCardDTO `json:"related"`
	Comments []CommentDTO      `json:"comments"`
}

type PlaybookListResponse struct {
	Items []PlaybookCardDTO `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

type CommentDTO struct {
	ID         int64  `json:"id"`
	PlaybookID int64  `json:"playbookId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

type AdminCommentDTO struct {
	CommentDTO
	AuthorEmail *string `json:"authorEmail"`
	Status      string  `json:"status"`
}

type ProductCardDTO struct {
	ID               int64    `json:"id"`
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription"`
	Category         *string  `json:"category"`
	Tags             []string `json:"tags"`
	Status           string   `json:"status"`
	UpdatedAt        *string  `json:"updatedAt"`
}

type ProductDTO struct {
	ProductCardDTO
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type ProductDetailDTO struct {
	ProductDTO
	HTML        string           `json:"html"`
	Links       []LinkDTO        `json:"links"`
	DefaultLink *LinkDTO         `json:"defaultLink"`
	Related     []ProductCardDTO `json:"related"`
}

type LinkDTO struct {
	ID             int64    `json:"id"`
	ProductID      int64    `json:"productId"`
	AffiliateURL   *string  `json:"affiliateUrl"`
	DestinationURL *string  `json:"destinationUrl"`
	CTAText        *string  `json:"ctaText"`
	CountryCodes   []string `json:"countryCodes"`
	Priority       int      `json:"priority"`
	Status         string   `json:"status"`
}

type ContactDTO struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"fullName"`
	WorkEmail    string   `json:"workEmail"`
	Phone        *string  `json:"phone"`
	CompanyName  *string  `json:"companyName"`
	Website      *string  `json:"website"`
	Message      string   `json:"message"`
	InterestedIn []string `json:"interestedIn"`
	RoleTitle    *string  `json:"roleTitle"`
	Status       string   `json:"status"`
	NotifyStatus string   `json:"notifyStatus"`
	NotifiedAt   *string  `json:"notifiedAt"`
	CreatedAt    string   `json:"createdAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatTime(*t)
	return &formatted
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toCategoryDTOs(items []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCategoryDTO(c))
	}
	return out
}

func toTagDTO(t models.Tag) TagDTO {
	return TagDTO{ID: t.ID, Label: t.Label, Slug: t.Slug}
}

func toTagDTOs(items []models.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(items))
	for _, t := range items {
		out = append(out, toTagDTO(t))
	}
	return out
}

func toPlaybookCard(p models.Playbook) PlaybookCardDTO {
	return PlaybookCardDTO{
		ID:                p.ID,
		Slug:              p.Slug,
		Title:             p.Title,
		Summary:           p.Summary,
		CategoryID:        p.CategoryID,
		Status:            p.Status,
		Access:            p.Access,
		PublishedAt:       formatTimePtr(p.PublishedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
		HasAffiliateLinks: p.HasAffiliateLinks,
		AudioURL:          p.AudioURL,
		AudioDuration:     p.AudioDuration,
		ViewCount:         p.ViewCount,
		LikeCount:         p.LikeCount,
		CommentCount:      p.CommentCount,
		AverageRating:     p.AverageRating,
	}
}

func toPlaybookCards(items []models.Playbook) []PlaybookCardDTO {
	out := make([]PlaybookCardDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toPlaybookCard(p))
	}
	return out
}

func toPlaybookDTO(p models.Playbook) PlaybookDTO {
	return PlaybookDTO{
		PlaybookCardDTO:  toPlaybookCard(p),
		Content:          p.Content,
		PrimaryProductID: p.PrimaryProductID,
	}
}

func toCommentDTO(c models.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID,
		PlaybookID: c.PlaybookID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  formatTime(c.CreatedAt),
	}
}

func toCommentDTOs(items []models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCommentDTO(c))
	}
	return out
}

func toAdminCommentDTOs(items []models.Comment) []AdminCommentDTO {
	out := make([]AdminCommentDTO, 0, len(items))
	for _, c := range items {
		out = append(out, AdminCommentDTO{
			CommentDTO:  toCommentDTO(c),
			AuthorEmail: c.AuthorEmail,
			Status:      c.Status,
		})
	}
	return out
}

func toProductCard(p models.Product) ProductCardDTO {
	return ProductCardDTO{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		Category:         p.Category,
		Tags:             nonNil(p.Tags),
		Status:           p.Status,
		UpdatedAt:        formatTimePtr(p.UpdatedAt),
	}
}

func toProductCards(items []models.Product) []ProductCardDTO {
	out := make([]ProductCardDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toProductCard(p))
	}
	return out
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ProductCardDTO: toProductCard(p),
		Content:        p.Content,
		CreatedAt:      formatTime(p.CreatedAt),
	}
}

func toLinkDTO(l models.ProductLink) LinkDTO {
	return LinkDTO{
		ID:             l.ID,
		ProductID:      l.ProductID,
		AffiliateURL:   l.AffiliateURL,
		DestinationURL: l.DestinationURL,
		CTAText:        l.CTAText,
		CountryCodes:   nonNil(l.CountryCodes),
		Priority:       l.Priority,
		Status:         l.Status,
	}
}

func toLinkDTOs(items []models.ProductLink) []LinkDTO {
	out := make([]LinkDTO, 0, len(items))
	for _, l := range items {
		out = append(out, toLinkDTO(l))
	}
	return out
}

func toContactDTOs(items []models.ContactSubmission) []ContactDTO {
	out := make([]ContactDTO, 0, len(items))
	for _, c := range items {
		out = append(out, ContactDTO{
			ID:           c.ID,
			FullName:     c.FullName,
			WorkEmail:    c.WorkEmail,
			Phone:        c.Phone,
			CompanyName:  c.CompanyName,
			Website:      c.Website,
			Message:      c.Message,
			InterestedIn: []string(c.InterestedIn),
			RoleTitle:    c.RoleTitle,
			Status:       c.Status,
			NotifyStatus: c.NotifyStatus,
			NotifiedAt:   formatTimePtr(c.NotifiedAt),
			CreatedAt:    formatTime(c.CreatedAt),
		})
	}
	return out
}
