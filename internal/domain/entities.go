package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account represents a tenant in the multi-tenant system
type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Plan      string    `json:"plan"`
	APIKey    string    `json:"api_key,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated on demand
	UserCount int `json:"user_count,omitempty"`
	LeadCount int `json:"lead_count,omitempty"`
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID `json:"id"`
	AccountID    uuid.UUID `json:"account_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"` // super_admin, admin, agent
	IsAdmin      bool      `json:"is_admin"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated on demand
	AccountName string `json:"account_name,omitempty"`
}

// User role constants
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleAgent      = "agent"
)

// Lead represents a potential customer
type Lead struct {
	ID           uuid.UUID              `json:"id"`
	AccountID    uuid.UUID              `json:"account_id"`
	Name         *string                `json:"name,omitempty"`
	Phone        *string                `json:"phone,omitempty"`
	Email        *string                `json:"email,omitempty"`
	Status       *string                `json:"status,omitempty"` // new, contacted, qualified, proposal, won, lost
	Origin       *string                `json:"origin,omitempty"` // form, webhook, chat, csv, manual
	Interest     *string                `json:"interest,omitempty"`
	VisitorID    *string                `json:"visitor_id,omitempty"`
	CompanyName  *string                `json:"company_name,omitempty"`
	CompanyTaxID *string                `json:"company_tax_id,omitempty"`
	CompanyEmail *string                `json:"company_email,omitempty"`
	Notes        *string                `json:"notes,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	CustomFields map[string]interface{} `json:"custom_fields,omitempty"`
	AssignedTo   *uuid.UUID             `json:"assigned_to,omitempty"`

	// Duplicate resolution marker: "" (none) or merged
	DuplicateStatus string     `json:"duplicate_status,omitempty"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadStatus constants
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusProposal  = "proposal"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

// Lead origin constants
const (
	LeadOriginForm    = "form"
	LeadOriginWebhook = "webhook"
	LeadOriginChat    = "chat"
	LeadOriginCSV     = "csv"
	LeadOriginManual  = "manual"
)

// DuplicateStatusMerged marks a lead that was folded into another record.
const DuplicateStatusMerged = "merged"

// DisplayName returns the best available label for the lead
func (l *Lead) DisplayName() string {
	if l.Name != nil && *l.Name != "" {
		return *l.Name
	}
	if l.Email != nil && *l.Email != "" {
		return *l.Email
	}
	if l.Phone != nil && *l.Phone != "" {
		return *l.Phone
	}
	return l.ID.String()
}

// PhoneValue returns the trimmed phone or ""
func (l *Lead) PhoneValue() string {
	if l.Phone == nil {
		return ""
	}
	return strings.TrimSpace(*l.Phone)
}

// EmailValue returns the trimmed email or ""
func (l *Lead) EmailValue() string {
	if l.Email == nil {
		return ""
	}
	return strings.TrimSpace(*l.Email)
}

// IsDeleted reports whether the lead has been soft-deleted.
func (l *Lead) IsDeleted() bool {
	return l.DeletedAt != nil
}

// ValidateIdentity enforces the minimum identity a lead must carry:
// at least one of name/email.
func (l *Lead) ValidateIdentity() error {
	hasName := l.Name != nil && strings.TrimSpace(*l.Name) != ""
	if !hasName && l.EmailValue() == "" {
		return &ValidationError{Field: "name", Message: "lead requires at least a name or an email"}
	}
	return nil
}

// LeadFilter defines filter options for listing leads
type LeadFilter struct {
	Search         string
	Status         string
	Origin         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// DuplicateNotification represents a detected collision between a newly
// arriving lead (the candidate) and a previously stored one (the incumbent).
type DuplicateNotification struct {
	ID              uuid.UUID  `json:"id"`
	AccountID       uuid.UUID  `json:"account_id"`
	LeadID          uuid.UUID  `json:"lead_id"`              // candidate
	DuplicateOfLead uuid.UUID  `json:"duplicate_of_lead_id"` // incumbent
	MatchReason     string     `json:"match_reason"`         // phone, email
	Status          string     `json:"status"`               // pending, ignored, reviewed, merged
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Denormalized display fields for operator review (populated via JOIN)
	CandidateName  *string `json:"candidate_name,omitempty"`
	CandidateEmail *string `json:"candidate_email,omitempty"`
	CandidatePhone *string `json:"candidate_phone,omitempty"`
	IncumbentName  *string `json:"incumbent_name,omitempty"`
	IncumbentEmail *string `json:"incumbent_email,omitempty"`
	IncumbentPhone *string `json:"incumbent_phone,omitempty"`
}

// Notification status constants
const (
	NotificationStatusPending  = "pending"
	NotificationStatusIgnored  = "ignored"
	NotificationStatusReviewed = "reviewed"
	NotificationStatusMerged   = "merged"
)

// Match reason constants
const (
	MatchReasonPhone = "phone"
	MatchReasonEmail = "email"
)

// IsTerminalNotificationStatus reports whether a status permits no further
// transition except idempotent repeats of itself.
func IsTerminalNotificationStatus(status string) bool {
	switch status {
	case NotificationStatusIgnored, NotificationStatusReviewed, NotificationStatusMerged:
		return true
	}
	return false
}

// MergeHistory is an immutable audit record of a completed merge.
type MergeHistory struct {
	ID             uuid.UUID              `json:"id"`
	AccountID      uuid.UUID              `json:"account_id"`
	SourceLeadID   uuid.UUID              `json:"source_lead_id"`
	TargetLeadID   uuid.UUID              `json:"target_lead_id"`
	ResultLeadID   uuid.UUID              `json:"result_lead_id"`
	Strategy       string                 `json:"strategy"`
	MergedBy       *uuid.UUID             `json:"merged_by,omitempty"`
	NotificationID *uuid.UUID             `json:"notification_id,omitempty"`
	SourceSnapshot map[string]interface{} `json:"source_snapshot"`
	TargetSnapshot map[string]interface{} `json:"target_snapshot"`
	ResultSnapshot map[string]interface{} `json:"result_snapshot"`
	CreatedAt      time.Time              `json:"created_at"`
}

// MediaFile represents an uploaded file in the media library
type MediaFile struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"account_id"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
	URL         string     `json:"url"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
