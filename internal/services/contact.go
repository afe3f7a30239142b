package services

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
)

const DefaultWebhookTimeout = 8 * time.Second

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ContactInput struct {
	FullName     string
	Email        string
	Message      string
	Phone        *string
	CompanyName  *string
	Website      *string
	RoleTitle    *string
	InterestedIn []string
}

// ContactService stores leads and hands them to the notifier once, in the background.
// The caller's outcome depends only on the insert.
type ContactService struct {
	Contacts repository.ContactRepository
	Notifier Notifier
	Feed     *LeadFeed
	Timeout  time.Duration
	Log      zerolog.Logger
	Now      func() time.Time

	wg sync.WaitGroup
}

func (s *ContactService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func ValidateContact(in ContactInput) (ContactInput, error) {
	var err error
	if in.FullName, err = NormalizeRequired(in.FullName, "Full name is required"); err != nil {
		return in, err
	}
	if in.Email, err = NormalizeRequired(in.Email, "Email is required"); err != nil {
		return in, err
	}
	if !emailRe.MatchString(in.Email) {
		return in, ErrBadRequest("Please enter a valid email address")
	}
	if in.Message, err = NormalizeRequired(in.Message, "Message is required"); err != nil {
		return in, err
	}
	in.Phone = OptionalString(in.Phone)
	in.CompanyName = OptionalString(in.CompanyName)
	in.Website = OptionalString(in.Website)
	in.RoleTitle = OptionalString(in.RoleTitle)
	in.InterestedIn = CleanTags(in.InterestedIn)
	return in, nil
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (int64, error) {
	in, err := ValidateContact(in)
	if err != nil {
		return 0, err
	}
	submission := models.ContactSubmission{
		FullName:     in.FullName,
		WorkEmail:    in.Email,
		Phone:        in.Phone,
		CompanyName:  in.CompanyName,
		Website:      in.Website,
		Message:      in.Message,
		RoleTitle:    in.RoleTitle,
		Status:       models.ContactNew,
		NotifyStatus: models.NotifyPending,
	}
	if len(in.InterestedIn) > 0 {
		submission.InterestedIn = pq.StringArray(in.InterestedIn)
	}
	id, err := s.Contacts.Create(ctx, &submission)
	if err != nil {
		s.Log.Error().Err(err).Msg("contact submission insert failed")
		return 0, ErrInternal("Could not save your message, please try again")
	}
	s.Log.Info().Int64("contact_id", id).Msg("contact submission stored")
	s.Feed.Broadcast(LeadEvent{
		Type:         LeadCreated,
		ContactID:    id,
		FullName:     submission.FullName,
		WorkEmail:    submission.WorkEmail,
		NotifyStatus: submission.NotifyStatus,
		At:           submission.CreatedAt,
	})

	s.wg.Add(1)
	go s.deliver(context.WithoutCancel(ctx), submission)
	return id, nil
}

// deliver runs the single webhook attempt and records its outcome.
func (s *ContactService) deliver(ctx context.Context, submission models.ContactSubmission) {
	defer s.wg.Done()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	status := models.NotifyFailed
	var notifiedAt *time.Time
	if s.Notifier == nil {
		s.Log.Warn().Int64("contact_id", submission.ID).Msg("no contact notifier configured")
	} else {
		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		err := s.Notifier.Notify(sendCtx, submission)
		cancel()
		if err != nil {
			s.Log.Warn().Err(err).Int64("contact_id", submission.ID).Msg("contact webhook failed")
		} else {
			status = models.NotifySent
			now := s.now()
			notifiedAt = &now
		}
	}

	if err := s.Contacts.SetNotifyStatus(ctx, submission.ID, status, notifiedAt); err != nil {
		s.Log.Error().Err(err).Int64("contact_id", submission.ID).Str("notify_status", status).
			Msg("contact notify status update failed")
		return
	}
	s.Log.Info().Int64("contact_id", submission.ID).Str("notify_status", status).Msg("contact notify status recorded")
	s.Feed.Broadcast(LeadEvent{
		Type:         LeadNotified,
		ContactID:    submission.ID,
		FullName:     submission.FullName,
		WorkEmail:    submission.WorkEmail,
		NotifyStatus: status,
		At:           s.now(),
	})
}

// Wait blocks until every in-flight delivery has recorded its outcome.
func (s *ContactService) Wait() {
	s.wg.Wait()
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	return s.Contacts.List(ctx, limit, offset)
}

