package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
	"picks-site-backend-go/internal/store"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

var statusRank = map[string]int{
	models.StatusDraft:     0,
	models.StatusPublished: 1,
	models.StatusArchived:  2,
}

// CanTransition allows staying put or moving forward through draft, published, archived.
func CanTransition(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

type PlaybookInput struct {
	Slug              string
	Title             string
	Summary           string
	Content           string
	CategoryID        *int64
	Status            string
	Access            string
	HasAffiliateLinks bool
	PrimaryProductID  *int64
	AudioURL          *string
	AudioDuration     *int
}

type PlaybookQuery struct {
	CategorySlug string
	TagSlug      string
	Page         int
	Limit        int
}

type PlaybookService struct {
	Playbooks   repository.PlaybookRepository
	Categories  repository.CategoryRepository
	Tags        repository.TagRepository
	Recommender Recommender
	Now         func() time.Time
}

func (s PlaybookService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ListPublished pages through public playbooks, optionally narrowed by category or tag slug.
// Unknown slugs give an empty page rather than an error.
func (s PlaybookService) ListPublished(ctx context.Context, q PlaybookQuery) ([]models.Playbook, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	filter := repository.PlaybookFilter{
		Status: models.StatusPublished,
		Access: models.AccessPublic,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if slug := strings.TrimSpace(q.CategorySlug); slug != "" {
		category, err := s.Categories.GetBySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			return []models.Playbook{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &category.ID
	}
	if slug := strings.TrimSpace(q.TagSlug); slug != "" {
		tag, err := s.Tags.GetBySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			return []models.Playbook{}, nil
		}
		if err != nil {
			return nil, err
		}
		ids, err := s.Playbooks.PlaybookIDsForTag(ctx, tag.ID)
		if err != nil {
			return nil, err
		}
		filter.IDs = ids
	}
	return s.Playbooks.List(ctx, filter)
}

func (s PlaybookService) ListAll(ctx context.Context, status string) ([]models.Playbook, error) {
	if status != "" {
		if _, ok := statusRank[status]; !ok {
			return nil, ErrBadRequest("Invalid status")
		}
	}
	return s.Playbooks.List(ctx, repository.PlaybookFilter{Status: status})
}

func (s PlaybookService) Get(ctx context.Context, id int64) (*models.Playbook, error) {
	p, err := s.Playbooks.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Playbook not found")
	}
	return p, nil
}

// GetPublished hides drafts, archived and members-only playbooks behind a 404.
func (s PlaybookService) GetPublished(ctx context.Context, slug string) (*models.Playbook, error) {
	p, err := s.Playbooks.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "Playbook not found")
	}
	if p.Status != models.StatusPublished || p.Access != models.AccessPublic {
		return nil, ErrNotFound("Playbook not found")
	}
	return p, nil
}

func (s PlaybookService) Create(ctx context.Context, in PlaybookInput) (*models.Playbook, error) {
	p := &models.Playbook{Status: models.StatusDraft, Access: models.AccessPublic}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if _, err := s.Playbooks.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s PlaybookService) Update(ctx context.Context, id int64, in PlaybookInput) (*models.Playbook, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.Playbooks.Update(ctx, p); err != nil {
		return nil, notFoundOr(err, "Playbook not found")
	}
	return p, nil
}

func (s PlaybookService) SetStatus(ctx context.Context, id int64, status string) (*models.Playbook, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(p, status); err != nil {
		return nil, err
	}
	if err := s.Playbooks.Update(ctx, p); err != nil {
		return nil, notFoundOr(err, "Playbook not found")
	}
	return p, nil
}

func (s PlaybookService) apply(ctx context.Context, p *models.Playbook, in PlaybookInput) error {
	title, err := NormalizeRequired(in.Title, "Title is required")
	if err != nil {
		return err
	}
	slug := Slugify(in.Slug)
	if strings.TrimSpace(in.Slug) == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return ErrBadRequest("Slug must contain letters or digits")
	}
	if in.CategoryID != nil {
		if _, err := s.Categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBadRequest("Unknown category")
			}
			return err
		}
	}
	access := strings.TrimSpace(in.Access)
	if access == "" {
		access = p.Access
	}
	if access != models.AccessPublic && access != models.AccessMembers {
		return ErrBadRequest("Invalid access")
	}
	if in.AudioDuration != nil && *in.AudioDuration < 0 {
		return ErrBadRequest("Audio duration cannot be negative")
	}
	if status := strings.TrimSpace(in.Status); status != "" {
		if err := s.transition(p, status); err != nil {
			return err
		}
	}
	p.Slug = slug
	p.Title = title
	p.Summary = strings.TrimSpace(in.Summary)
	p.Content = in.Content
	p.CategoryID = in.CategoryID
	p.Access = access
	p.HasAffiliateLinks = in.HasAffiliateLinks
	p.PrimaryProductID = in.PrimaryProductID
	p.AudioURL = OptionalString(in.AudioURL)
	p.AudioDuration = in.AudioDuration
	return nil
}

// transition moves p to status, stamping published_at the first time it is published.
func (s PlaybookService) transition(p *models.Playbook, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := statusRank[status]; !ok {
		return ErrBadRequest("Invalid status")
	}
	if !CanTransition(p.Status, status) {
		return ErrConflict("Playbook cannot move from " + p.Status + " to " + status)
	}
	p.Status = status
	if status == models.StatusPublished && p.PublishedAt == nil {
		now := s.now()
		p.PublishedAt = &now
	}
	return nil
}

func (s PlaybookService) TagsFor(ctx context.Context, playbookID int64) ([]models.Tag, error) {
	links, err := s.Playbooks.TagLinks(ctx, []int64{playbookID})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.TagID)
	}
	return s.Tags.ListByIDs(ctx, ids)
}

// SetTags replaces the playbook's tag set; every id must name an existing tag.
func (s PlaybookService) SetTags(ctx context.Context, playbookID int64, tagIDs []int64) ([]models.Tag, error) {
	if _, err := s.Get(ctx, playbookID); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(tagIDs))
	unique := make([]int64, 0, len(tagIDs))
	for _, id := range tagIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	tags, err := s.Tags.ListByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, ErrBadRequest("Unknown tag")
	}
	if err := s.Playbooks.ReplaceTags(ctx, playbookID, unique); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s PlaybookService) Related(ctx context.Context, p *models.Playbook, tags []models.Tag) []models.Playbook {
	tagIDs := make([]int64, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	return s.Recommender.RecommendPlaybooks(ctx, p.ID, p.CategoryID, tagIDs)
}
