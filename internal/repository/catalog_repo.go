package repository

import (
	"context"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

type categoryRepo struct {
	st store.Store
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(st store.Store) CategoryRepository {
	return &categoryRepo{st: st}
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	items := []models.Category{}
	if err := r.st.Select(ctx, &items, store.From(store.TableCategories).OrderBy(store.Asc("name"))); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.get(ctx, store.Eq("id", id))
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.get(ctx, store.Eq("slug", slug))
}

// FindByName matches names case-insensitively.
func (r *categoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.get(ctx, store.ILikeExact("name", name))
}

func (r *categoryRepo) get(ctx context.Context, filter store.Filter) (*models.Category, error) {
	var item models.Category
	if err := r.st.Get(ctx, &item, store.From(store.TableCategories).Where(filter)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) (int64, error) {
	c.CreatedAt = time.Now().UTC()
	id, err := r.st.Insert(ctx, store.TableCategories, store.Values{
		"name":       c.Name,
		"slug":       c.Slug,
		"created_at": c.CreatedAt,
	})
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	return expectRow(r.st.Update(ctx, store.TableCategories,
		store.Values{"name": c.Name, "slug": c.Slug},
		store.Eq("id", c.ID)))
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	return expectRow(r.st.Delete(ctx, store.TableCategories, store.Eq("id", id)))
}

type tagRepo struct {
	st store.Store
}

// NewTagRepo creates a new tag repository
func NewTagRepo(st store.Store) TagRepository {
	return &tagRepo{st: st}
}

func (r *tagRepo) List(ctx context.Context) ([]models.Tag, error) {
	items := []models.Tag{}
	if err := r.st.Select(ctx, &items, store.From(store.TableTags).OrderBy(store.Asc("label"))); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *tagRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	items := []models.Tag{}
	if len(ids) == 0 {
		return items, nil
	}
	q := store.From(store.TableTags).Where(store.In("id", ids)).OrderBy(store.Asc("label"))
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *tagRepo) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	return r.get(ctx, store.Eq("id", id))
}

func (r *tagRepo) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return r.get(ctx, store.Eq("slug", slug))
}

// FindByLabel matches labels case-insensitively.
func (r *tagRepo) FindByLabel(ctx context.Context, label string) (*models.Tag, error) {
	return r.get(ctx, store.ILikeExact("label", label))
}

func (r *tagRepo) get(ctx context.Context, filter store.Filter) (*models.Tag, error) {
	var item models.Tag
	if err := r.st.Get(ctx, &item, store.From(store.TableTags).Where(filter)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *tagRepo) Create(ctx context.Context, t *models.Tag) (int64, error) {
	t.CreatedAt = time.Now().UTC()
	id, err := r.st.Insert(ctx, store.TableTags, store.Values{
		"label":      t.Label,
		"slug":       t.Slug,
		"created_at": t.CreatedAt,
	})
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

func (r *tagRepo) Update(ctx context.Context, t *models.Tag) error {
	return expectRow(r.st.Update(ctx, store.TableTags,
		store.Values{"label": t.Label, "slug": t.Slug},
		store.Eq("id", t.ID)))
}

func (r *tagRepo) Delete(ctx context.Context, id int64) error {
	return expectRow(r.st.Delete(ctx, store.TableTags, store.Eq("id", id)))
}
