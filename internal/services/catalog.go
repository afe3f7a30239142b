package services

import (
	"context"
	"errors"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
	"picks-site-backend-go/internal/store"
)

// CatalogService manages categories and tags. Names and labels are unique ignoring case
// and slugs are always derived from them.
type CatalogService struct {
	Categories repository.CategoryRepository
	Tags       repository.TagRepository
	Playbooks  repository.PlaybookRepository
}

func (s CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Categories.List(ctx)
}

func (s CatalogService) Category(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	return category, nil
}

func (s CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, slug, err := nameAndSlug(name, "Category name is required")
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategoryNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, Slug: slug}
	if _, err := s.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s CatalogService) UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	category, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	name, slug, err := nameAndSlug(name, "Category name is required")
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategoryNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	category.Name = name
	category.Slug = slug
	if err := s.Categories.Update(ctx, category); err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	return category, nil
}

// DeleteCategory detaches the category from its playbooks before removing it.
func (s CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.Categories.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "Category not found")
	}
	if err := s.Playbooks.ClearCategory(ctx, id); err != nil {
		return err
	}
	return notFoundOr(s.Categories.Delete(ctx, id), "Category not found")
}

func (s CatalogService) ensureCategoryNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.Categories.FindByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrConflict("A category with this name already exists")
	}
	return nil
}

func (s CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.Tags.List(ctx)
}

func (s CatalogService) CreateTag(ctx context.Context, label string) (*models.Tag, error) {
	label, slug, err := nameAndSlug(label, "Tag label is required")
	if err != nil {
		return nil, err
	}
	if err := s.ensureTagLabelFree(ctx, label, 0); err != nil {
		return nil, err
	}
	tag := &models.Tag{Label: label, Slug: slug}
	if _, err := s.Tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s CatalogService) UpdateTag(ctx context.Context, id int64, label string) (*models.Tag, error) {
	tag, err := s.Tags.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Tag not found")
	}
	label, slug, err := nameAndSlug(label, "Tag label is required")
	if err != nil {
		return nil, err
	}
	if err := s.ensureTagLabelFree(ctx, label, id); err != nil {
		return nil, err
	}
	tag.Label = label
	tag.Slug = slug
	if err := s.Tags.Update(ctx, tag); err != nil {
		return nil, notFoundOr(err, "Tag not found")
	}
	return tag, nil
}

// DeleteTag removes the tag's playbook links first.
func (s CatalogService) DeleteTag(ctx context.Context, id int64) error {
	if _, err := s.Tags.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "Tag not found")
	}
	if err := s.Playbooks.RemoveTagLinks(ctx, id); err != nil {
		return err
	}
	return notFoundOr(s.Tags.Delete(ctx, id), "Tag not found")
}

func (s CatalogService) ensureTagLabelFree(ctx context.Context, label string, selfID int64) error {
	existing, err := s.Tags.FindByLabel(ctx, label)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrConflict("A tag with this label already exists")
	}
	return nil
}

func nameAndSlug(value, message string) (string, string, error) {
	name, err := NormalizeRequired(value, message)
	if err != nil {
		return "", "", err
	}
	slug := Slugify(name)
	if slug == "" {
		return "", "", ErrBadRequest("Name must contain letters or digits")
	}
	return name, slug, nil
}
