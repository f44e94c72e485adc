package dedup

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/naperu/heraldo/internal/repository"
)

// Detector finds an existing lead colliding with an incoming candidate and
// records the collision as a pending notification. Detection is best-effort:
// it never blocks or fails lead creation.
type Detector struct {
	leads         *repository.LeadRepository
	notifications *repository.NotificationRepository
}

func NewDetector(leads *repository.LeadRepository, notifications *repository.NotificationRepository) *Detector {
	return &Detector{leads: leads, notifications: notifications}
}

// Match describes a detected collision before it is persisted.
type Match struct {
	Incumbent *domain.Lead
	Reason    string
}

// Evaluate looks for a non-deleted lead in the tenant sharing the candidate's
// phone or email. Call it BEFORE inserting the candidate so the candidate
// cannot match itself. Returns nil when nothing collides or the query failed.
func (d *Detector) Evaluate(ctx context.Context, accountID uuid.UUID, candidate *domain.Lead) *Match {
	phone := candidate.PhoneValue()
	email := candidate.EmailValue()
	if phone == "" && email == "" {
		return nil
	}

	incumbents, err := d.leads.FindByPhoneOrEmail(ctx, accountID, phone, email)
	if err != nil {
		log.Printf("[Dedup] detection query failed for account %s: %v", accountID, err)
		return nil
	}
	if len(incumbents) == 0 {
		return nil
	}

	incumbent, reason := pickIncumbent(incumbents, phone, email)
	if incumbent == nil {
		return nil
	}
	return &Match{Incumbent: incumbent, Reason: reason}
}

// Record persists the pending notification for a match. Failure is logged and
// swallowed; the candidate lead already exists either way.
func (d *Detector) Record(ctx context.Context, accountID uuid.UUID, candidateID uuid.UUID, match *Match) *domain.DuplicateNotification {
	n := &domain.DuplicateNotification{
		AccountID:       accountID,
		LeadID:          candidateID,
		DuplicateOfLead: match.Incumbent.ID,
		MatchReason:     match.Reason,
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		log.Printf("[Dedup] failed to record duplicate notification for lead %s: %v", candidateID, err)
		return nil
	}
	return n
}

// pickIncumbent selects one incumbent when phone and email rules hit
// different leads: phone matches outrank email matches, and within a rule the
// oldest lead wins (callers pass rows ordered created_at ASC).
func pickIncumbent(incumbents []*domain.Lead, phone, email string) (*domain.Lead, string) {
	if phone != "" {
		for _, l := range incumbents {
			if l.PhoneValue() == phone {
				return l, domain.MatchReasonPhone
			}
		}
	}
	if email != "" {
		for _, l := range incumbents {
			if l.EmailValue() == email {
				return l, domain.MatchReasonEmail
			}
		}
	}
	return nil, ""
}
