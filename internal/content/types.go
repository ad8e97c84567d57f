package content

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article is a regular news story.
type Article struct {
	ID          string     `json:"_id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	RegionSlug  string     `json:"region_slug,omitempty"`
	RegionTitle string     `json:"region_title,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Magazine is a purchasable print/digital issue.
type Magazine struct {
	ID          string          `json:"_id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	IssueNumber int             `json:"issue_number,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CoverImage  string          `json:"cover_image,omitempty"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

// Exclusive is a members-only report.
type Exclusive struct {
	ID          string     `json:"_id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Region is a geographic taxonomy node articles hang off of.
type Region struct {
	ID          string `json:"_id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MemberRecord mirrors the membership document held by the content store.
// Status values are owned by the content store and never validated here.
type MemberRecord struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	MembershipType string `json:"membership_type"`
	Status         string `json:"status"`
}
