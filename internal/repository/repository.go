package repository

import (
	"context"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

// PlaybookFilter narrows a playbook listing. Zero values mean "no constraint".
type PlaybookFilter struct {
	Status     string
	Access     string
	CategoryID *int64
	ExcludeID  int64
	IDs        []int64
	Limit      int
	Offset     int
}

// PlaybookRepository covers playbooks and their tag links.
type PlaybookRepository interface {
	List(ctx context.Context, filter PlaybookFilter) ([]models.Playbook, error)
	GetByID(ctx context.Context, id int64) (*models.Playbook, error)
	GetBySlug(ctx context.Context, slug string) (*models.Playbook, error)
	Create(ctx context.Context, playbook *models.Playbook) (int64, error)
	Update(ctx context.Context, playbook *models.Playbook) error
	ClearCategory(ctx context.Context, categoryID int64) error
	TagLinks(ctx context.Context, playbookIDs []int64) ([]models.PlaybookTag, error)
	PlaybookIDsForTag(ctx context.Context, tagID int64) ([]int64, error)
	ReplaceTags(ctx context.Context, playbookID int64, tagIDs []int64) error
	RemoveTagLinks(ctx context.Context, tagID int64) error
}

// CategoryRepository covers playbook categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) (int64, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// TagRepository covers playbook tags.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	FindByLabel(ctx context.Context, label string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) (int64, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id int64) error
}

// CommentRepository covers playbook comments and their moderation state.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListApproved(ctx context.Context, playbookID int64) ([]models.Comment, error)
	ListByStatus(ctx context.Context, status string) ([]models.Comment, error)
	// SetStatus moves a comment from one status to another and reports whether a row changed.
	SetStatus(ctx context.Context, id int64, from, to string) (bool, error)
}

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Status      string
	Category    string
	ExcludeSlug string
}

// ProductRepository covers picks and their outbound links.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (int64, error)
	Update(ctx context.Context, product *models.Product) error
	Links(ctx context.Context, productID int64) ([]models.ProductLink, error)
	GetLink(ctx context.Context, id int64) (*models.ProductLink, error)
	CreateLink(ctx context.Context, link *models.ProductLink) (int64, error)
	UpdateLink(ctx context.Context, link *models.ProductLink) error
}

// ContactRepository covers contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContactSubmission, error)
	SetNotifyStatus(ctx context.Context, id int64, status string, notifiedAt *time.Time) error
	List(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Playbooks  PlaybookRepository
	Categories CategoryRepository
	Tags       TagRepository
	Comments   CommentRepository
	Products   ProductRepository
	Contacts   ContactRepository
}

// New creates all repositories over the given store
func New(st store.Store) *Repositories {
	return &Repositories{
		Playbooks:  NewPlaybookRepo(st),
		Categories: NewCategoryRepo(st),
		Tags:       NewTagRepo(st),
		Comments:   NewCommentRepo(st),
		Products:   NewProductRepo(st),
		Contacts:   NewContactRepo(st),
	}
}

// expectRow turns a zero-row write into store.ErrNotFound.
func expectRow(affected int64, err error) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
