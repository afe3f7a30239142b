package repository

import (
	"context"
	"time"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/store"
)

type contactRepo struct {
	st store.Store
}

// NewContactRepo creates a new contact submission repository
func NewContactRepo(st store.Store) ContactRepository {
	return &contactRepo{st: st}
}

func (r *contactRepo) Create(ctx context.Context, s *models.ContactSubmission) (int64, error) {
	s.CreatedAt = time.Now().UTC()
	id, err := r.st.Insert(ctx, store.TableContacts, store.Values{
		"full_name":     s.FullName,
		"work_email":    s.WorkEmail,
		"phone":         s.Phone,
		"company_name":  s.CompanyName,
		"website":       s.Website,
		"message":       s.Message,
		"interested_in": s.InterestedIn,
		"role_title":    s.RoleTitle,
		"status":        s.Status,
		"notify_status": s.NotifyStatus,
		"notified_at":   s.NotifiedAt,
		"created_at":    s.CreatedAt,
	})
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

func (r *contactRepo) GetByID(ctx context.Context, id int64) (*models.ContactSubmission, error) {
	var item models.ContactSubmission
	if err := r.st.Get(ctx, &item, store.From(store.TableContacts).Where(store.Eq("id", id))); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetNotifyStatus only touches rows still pending so the delivery outcome is written once.
func (r *contactRepo) SetNotifyStatus(ctx context.Context, id int64, status string, notifiedAt *time.Time) error {
	return expectRow(r.st.Update(ctx, store.TableContacts,
		store.Values{"notify_status": status, "notified_at": notifiedAt},
		store.Eq("id", id), store.Eq("notify_status", models.NotifyPending)))
}

func (r *contactRepo) List(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	items := []models.ContactSubmission{}
	q := store.From(store.TableContacts).OrderBy(store.Desc("created_at"), store.Desc("id"))
	if limit > 0 {
		q = q.Take(limit)
	}
	if offset > 0 {
		q = q.Skip(offset)
	}
	if err := r.st.Select(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}
