package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	AccessPublic  = "public"
	AccessMembers = "members"

	CommentPending  = "pending"
	CommentApproved = "approved"
	CommentRejected = "rejected"

	LinkActive   = "active"
	LinkInactive = "inactive"

	ContactNew = "new"

	NotifyPending = "pending"
	NotifySent    = "sent"
	NotifyFailed  = "failed"
)

type Playbook struct {
	ID                int64      `db:"id"`
	Slug              string     `db:"slug"`
	Title             string     `db:"title"`
	Summary           string     `db:"summary"`
	Content           string     `db:"content"`
	CategoryID        *int64     `db:"category_id"`
	Status            string     `db:"status"`
	Access            string     `db:"access"`
	PublishedAt       *time.Time `db:"published_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	HasAffiliateLinks bool       `db:"has_affiliate_links"`
	PrimaryProductID  *int64     `db:"primary_product_id"`
	AudioURL          *string    `db:"audio_url"`
	AudioDuration     *int       `db:"audio_duration"`
	ViewCount         int        `db:"view_count"`
	LikeCount         int        `db:"like_count"`
	CommentCount      int        `db:"comment_count"`
	AverageRating     float64    `db:"average_rating"`
}

type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type Tag struct {
	ID        int64     `db:"id"`
	Label     string    `db:"label"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type PlaybookTag struct {
	PlaybookID int64 `db:"playbook_id"`
	TagID      int64 `db:"tag_id"`
}

type Comment struct {
	ID          int64     `db:"id"`
	PlaybookID  int64     `db:"playbook_id"`
	AuthorName  string    `db:"author_name"`
	AuthorEmail *string   `db:"author_email"`
	Content     string    `db:"content"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

type Product struct {
	ID               int64          `db:"id"`
	Slug             string         `db:"slug"`
	Name             string         `db:"name"`
	ShortDescription string         `db:"short_description"`
	Category         *string        `db:"category"`
	Tags             pq.StringArray `db:"tags"`
	Content          string         `db:"content"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        *time.Time     `db:"updated_at"`
}

type ProductLink struct {
	ID             int64          `db:"id"`
	ProductID      int64          `db:"product_id"`
	AffiliateURL   *string        `db:"affiliate_url"`
	DestinationURL *string        `db:"destination_url"`
	CTAText        *string        `db:"cta_text"`
	CountryCodes   pq.StringArray `db:"country_codes"`
	Priority       int            `db:"priority"`
	Status         string         `db:"status"`
}

type ContactSubmission struct {
	ID           int64          `db:"id"`
	FullName     string         `db:"full_name"`
	WorkEmail    string         `db:"work_email"`
	Phone        *string        `db:"phone"`
	CompanyName  *string        `db:"company_name"`
	Website      *string        `db:"website"`
	Message      string         `db:"message"`
	InterestedIn pq.StringArray `db:"interested_in"`
	RoleTitle    *string        `db:"role_title"`
	Status       string         `db:"status"`
	NotifyStatus string         `db:"notify_status"`
	NotifiedAt   *time.Time     `db:"notified_at"`
	CreatedAt    time.Time      `db:"created_at"`
}
