package repository

import (
	"context"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

type productRepo struct {
	st store.Store
}

// NewProductRepo creates a new product repository
func NewProductRepo(st store.Store) ProductRepository {
	return &productRepo{st: st}
}

// List returns products most recently updated first, never-updated rows last.
func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := store.From(store.TableProducts).
		OrderBy(store.Desc("updated_at").NullsLast(), store.Desc("id"))
	if filter.Status != "" {
		q = q.Where(store.Eq("status", filter.Status))
	}
	if filter.Category != "" {
		q = q.Where(store.ILikeExact("category", filter.Category))
	}
	if filter.ExcludeSlug != "" {
		q = q.Where(store.Neq("slug", filter.ExcludeSlug))
	}
	items := []models.Product{}
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var item models.Product
	if err := r.st.Get(ctx, &item, store.From(store.TableProducts).Where(store.Eq("id", id))); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var item models.Product
	if err := r.st.Get(ctx, &item, store.From(store.TableProducts).Where(store.Eq("slug", slug))); err != nil {
		return nil, err
	}
	return &item, nil
}

func productValues(p *models.Product) store.Values {
	return store.Values{
		"slug":              p.Slug,
		"name":              p.Name,
		"short_description": p.ShortDescription,
		"category":          p.Category,
		"tags":              p.Tags,
		"content":           p.Content,
		"status":            p.Status,
		"updated_at":        p.UpdatedAt,
	}
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) (int64, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = &now
	values := productValues(p)
	values["created_at"] = p.CreatedAt
	id, err := r.st.Insert(ctx, store.TableProducts, values)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return expectRow(r.st.Update(ctx, store.TableProducts, productValues(p), store.Eq("id", p.ID)))
}

// Links returns every link of a product, lowest priority first.
func (r *productRepo) Links(ctx context.Context, productID int64) ([]models.ProductLink, error) {
	items := []models.ProductLink{}
	q := store.From(store.TableProductLinks).
		Where(store.Eq("product_id", productID)).
		OrderBy(store.Asc("priority"), store.Asc("id"))
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *productRepo) GetLink(ctx context.Context, id int64) (*models.ProductLink, error) {
	var item models.ProductLink
	if err := r.st.Get(ctx, &item, store.From(store.TableProductLinks).Where(store.Eq("id", id))); err != nil {
		return nil, err
	}
	return &item, nil
}

func linkValues(l *models.ProductLink) store.Values {
	return store.Values{
		"product_id":      l.ProductID,
		"affiliate_url":   l.AffiliateURL,
		"destination_url": l.DestinationURL,
		"cta_text":        l.CTAText,
		"country_codes":   l.CountryCodes,
		"priority":        l.Priority,
		"status":          l.Status,
	}
}

func (r *productRepo) CreateLink(ctx context.Context, l *models.ProductLink) (int64, error) {
	id, err := r.st.Insert(ctx, store.TableProductLinks, linkValues(l))
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (r *productRepo) UpdateLink(ctx context.Context, l *models.ProductLink) error {
	return expectRow(r.st.Update(ctx, store.TableProductLinks, linkValues(l), store.Eq("id", l.ID)))
}
