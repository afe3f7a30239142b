package services

import (
	"context"
	"errors"
	"strings"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
	"picks-site-backend-go/internal/store"
)

type CommentInput struct {
	PlaybookID  string
	AuthorName  string
	AuthorEmail *string
	Content     string
}

// CommentService runs the moderation queue: public submissions enter as pending and an
// admin moves them once to approved or rejected.
type CommentService struct {
	Comments repository.CommentRepository
}

func (s CommentService) Submit(ctx context.Context, in CommentInput) (*models.Comment, error) {
	playbookID, err := ParseID(in.PlaybookID)
	if err != nil {
		return nil, ErrBadRequest("Invalid playbook id")
	}
	name, err := NormalizeRequired(in.AuthorName, "Name is required")
	if err != nil {
		return nil, err
	}
	content, err := NormalizeRequired(in.Content, "Comment is required")
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{
		PlaybookID:  playbookID,
		AuthorName:  name,
		AuthorEmail: OptionalString(in.AuthorEmail),
		Content:     content,
		Status:      models.CommentPending,
	}
	if _, err := s.Comments.Create(ctx, comment); err != nil {
		// the public form shows the store message as-is
		return nil, ErrInternal(err.Error())
	}
	return comment, nil
}

func (s CommentService) ListApproved(ctx context.Context, playbookID int64) ([]models.Comment, error) {
	return s.Comments.ListApproved(ctx, playbookID)
}

func (s CommentService) Queue(ctx context.Context, status string) ([]models.Comment, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", models.CommentPending, models.CommentApproved, models.CommentRejected:
	default:
		return nil, ErrBadRequest("Invalid status")
	}
	return s.Comments.ListByStatus(ctx, status)
}

func (s CommentService) Approve(ctx context.Context, id int64) error {
	return s.moderate(ctx, id, models.CommentApproved)
}

func (s CommentService) Reject(ctx context.Context, id int64) error {
	return s.moderate(ctx, id, models.CommentRejected)
}

// moderate only ever leaves the pending state; approved and rejected are terminal.
func (s CommentService) moderate(ctx context.Context, id int64, to string) error {
	changed, err := s.Comments.SetStatus(ctx, id, models.CommentPending, to)
	if err != nil {
		return err
	}
	if changed {
		return nil
	}
	if _, err := s.Comments.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound("Comment not found")
		}
		return err
	}
	return ErrConflict("Comment has already been moderated")
}
