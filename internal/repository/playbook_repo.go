package repository

import (
	"context"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

type playbookRepo struct {
	st store.Store
}

// NewPlaybookRepo creates a new playbook repository
func NewPlaybookRepo(st store.Store) PlaybookRepository {
	return &playbookRepo{st: st}
}

// List returns playbooks newest published first; unpublished rows sort last by update time.
func (r *playbookRepo) List(ctx context.Context, filter PlaybookFilter) ([]models.Playbook, error) {
	q := store.From(store.TablePlaybooks).
		OrderBy(store.Desc("published_at").NullsLast(), store.Desc("updated_at"), store.Desc("id"))
	if filter.Status != "" {
		q = q.Where(store.Eq("status", filter.Status))
	}
	if filter.Access != "" {
		q = q.Where(store.Eq("access", filter.Access))
	}
	if filter.CategoryID != nil {
		q = q.Where(store.Eq("category_id", *filter.CategoryID))
	}
	if filter.ExcludeID != 0 {
		q = q.Where(store.Neq("id", filter.ExcludeID))
	}
	if filter.IDs != nil {
		q = q.Where(store.In("id", filter.IDs))
	}
	if filter.Limit > 0 {
		q = q.Take(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Skip(filter.Offset)
	}
	items := []models.Playbook{}
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *playbookRepo) GetByID(ctx context.Context, id int64) (*models.Playbook, error) {
	var item models.Playbook
	if err := r.st.Get(ctx, &item, store.From(store.TablePlaybooks).Where(store.Eq("id", id))); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *playbookRepo) GetBySlug(ctx context.Context, slug string) (*models.Playbook, error) {
	var item models.Playbook
	if err := r.st.Get(ctx, &item, store.From(store.TablePlaybooks).Where(store.Eq("slug", slug))); err != nil {
		return nil, err
	}
	return &item, nil
}

func playbookValues(p *models.Playbook) store.Values {
	return store.Values{
		"slug":                p.Slug,
		"title":               p.Title,
		"summary":             p.Summary,
		"content":             p.Content,
		"category_id":         p.CategoryID,
		"status":              p.Status,
		"access":              p.Access,
		"published_at":        p.PublishedAt,
		"has_affiliate_links": p.HasAffiliateLinks,
		"primary_product_id":  p.PrimaryProductID,
		"audio_url":           p.AudioURL,
		"audio_duration":      p.AudioDuration,
		"updated_at":          p.UpdatedAt,
	}
}

func (r *playbookRepo) Create(ctx context.Context, p *models.Playbook) (int64, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	values := playbookValues(p)
	values["created_at"] = p.CreatedAt
	id, err := r.st.Insert(ctx, store.TablePlaybooks, values)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// Update rewrites every editable column and bumps updated_at.
func (r *playbookRepo) Update(ctx context.Context, p *models.Playbook) error {
	p.UpdatedAt = time.Now().UTC()
	return expectRow(r.st.Update(ctx, store.TablePlaybooks, playbookValues(p), store.Eq("id", p.ID)))
}

func (r *playbookRepo) ClearCategory(ctx context.Context, categoryID int64) error {
	_, err := r.st.Update(ctx, store.TablePlaybooks,
		store.Values{"category_id": nil, "updated_at": time.Now().UTC()},
		store.Eq("category_id", categoryID))
	return err
}

func (r *playbookRepo) TagLinks(ctx context.Context, playbookIDs []int64) ([]models.PlaybookTag, error) {
	links := []models.PlaybookTag{}
	if len(playbookIDs) == 0 {
		return links, nil
	}
	q := store.From(store.TablePlaybookTags).Where(store.In("playbook_id", playbookIDs))
	if err := r.st.Select(ctx, &links, q); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *playbookRepo) PlaybookIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	links := []models.PlaybookTag{}
	q := store.From(store.TablePlaybookTags).Where(store.Eq("tag_id", tagID))
	if err := r.st.Select(ctx, &links, q); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.PlaybookID)
	}
	return ids, nil
}

// ReplaceTags deletes every link of the playbook and inserts the new set.
func (r *playbookRepo) ReplaceTags(ctx context.Context, playbookID int64, tagIDs []int64) error {
	if _, err := r.st.Delete(ctx, store.TablePlaybookTags, store.Eq("playbook_id", playbookID)); err != nil {
		return err
	}
	rows := make([]store.Values, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, store.Values{"playbook_id": playbookID, "tag_id": tagID})
	}
	return r.st.InsertMany(ctx, store.TablePlaybookTags, rows)
}

func (r *playbookRepo) RemoveTagLinks(ctx context.Context, tagID int64) error {
	_, err := r.st.Delete(ctx, store.TablePlaybookTags, store.Eq("tag_id", tagID))
	return err
}
