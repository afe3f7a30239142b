package repository

import (
	"context"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

type commentRepo struct {
	st store.Store
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(st store.Store) CommentRepository {
	return &commentRepo{st: st}
}

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) (int64, error) {
	c.CreatedAt = time.Now().UTC()
	id, err := r.st.Insert(ctx, store.TableComments, store.Values{
		"playbook_id":  c.PlaybookID,
		"author_name":  c.AuthorName,
		"author_email": c.AuthorEmail,
		"content":      c.Content,
		"status":       c.Status,
		"created_at":   c.CreatedAt,
	})
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var item models.Comment
	if err := r.st.Get(ctx, &item, store.From(store.TableComments).Where(store.Eq("id", id))); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListApproved returns the public thread of a playbook, oldest first.
func (r *commentRepo) ListApproved(ctx context.Context, playbookID int64) ([]models.Comment, error) {
	items := []models.Comment{}
	q := store.From(store.TableComments).
		Where(store.Eq("playbook_id", playbookID), store.Eq("status", models.CommentApproved)).
		OrderBy(store.Asc("created_at"), store.Asc("id"))
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByStatus feeds the moderation queue; an empty status lists everything.
func (r *commentRepo) ListByStatus(ctx context.Context, status string) ([]models.Comment, error) {
	items := []models.Comment{}
	q := store.From(store.TableComments).OrderBy(store.Asc("created_at"), store.Asc("id"))
	if status != "" {
		q = q.Where(store.Eq("status", status))
	}
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *commentRepo) SetStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	affected, err := r.st.Update(ctx, store.TableComments,
		store.Values{"status": to},
		store.Eq("id", id), store.Eq("status", from))
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
