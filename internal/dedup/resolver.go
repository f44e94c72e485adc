package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/naperu/heraldo/internal/repository"
)

// MergeRequest carries the operator's merge intent. Which record survives
// depends on the strategy: keep_new keeps the source, the other two keep the
// target.
type MergeRequest struct {
	SourceID       uuid.UUID
	TargetID       uuid.UUID
	Strategy       string
	NotificationID *uuid.UUID
	OperatorID     *uuid.UUID
}

// MergeResult is what the operator gets back after a successful merge.
// MergedID names the record that was folded away.
type MergeResult struct {
	Survivor     *domain.Lead
	MergedID     uuid.UUID
	History      *domain.MergeHistory
	Notification *domain.DuplicateNotification
}

// Resolver executes merges. The lead writes happen in one transaction; the
// history append and notification transition run after commit and are
// best-effort, so a survivor is never left half-written.
type Resolver struct {
	leads   *repository.LeadRepository
	history *repository.MergeHistoryRepository
	queue   *Queue
}

func NewResolver(leads *repository.LeadRepository, history *repository.MergeHistoryRepository, queue *Queue) *Resolver {
	return &Resolver{leads: leads, history: history, queue: queue}
}

func (r *Resolver) Execute(ctx context.Context, accountID uuid.UUID, req MergeRequest) (*MergeResult, error) {
	strategy, err := ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	if req.SourceID == req.TargetID {
		return nil, &domain.ValidationError{Field: "source_lead_id", Message: "source and target must be different leads"}
	}

	source, err := r.loadLive(ctx, accountID, req.SourceID)
	if err != nil {
		return nil, err
	}
	target, err := r.loadLive(ctx, accountID, req.TargetID)
	if err != nil {
		return nil, err
	}

	// Fail fast before touching the leads when the notification was already
	// resolved by someone else.
	if req.NotificationID != nil {
		n, err := r.queue.reload(ctx, accountID, *req.NotificationID)
		if err != nil {
			return nil, err
		}
		if n.Status != domain.NotificationStatusPending {
			return nil, &domain.ConflictError{
				NotificationID: n.ID,
				Current:        n.Status,
				Requested:      domain.NotificationStatusMerged,
			}
		}
	}

	now := time.Now().UTC()
	survivor, err := Plan(strategy, source, target, now)
	if err != nil {
		return nil, err
	}

	loserID := source.ID
	if survivor.ID == source.ID {
		loserID = target.ID
	}
	if err := r.leads.ApplyMerge(ctx, survivor, loserID); err != nil {
		return nil, &domain.StorageError{Op: "apply merge", Err: err}
	}

	result := &MergeResult{Survivor: survivor, MergedID: loserID}

	entry := &domain.MergeHistory{
		AccountID:      accountID,
		SourceLeadID:   source.ID,
		TargetLeadID:   target.ID,
		ResultLeadID:   survivor.ID,
		Strategy:       string(strategy),
		MergedBy:       req.OperatorID,
		NotificationID: req.NotificationID,
		SourceSnapshot: snapshotLead(source),
		TargetSnapshot: snapshotLead(target),
		ResultSnapshot: snapshotLead(survivor),
	}
	if err := r.history.Append(ctx, entry); err != nil {
		log.Printf("[Merge] failed to append history for merge %s -> %s: %v", source.ID, target.ID, err)
	} else {
		result.History = entry
	}

	if req.NotificationID != nil {
		n, err := r.markMerged(ctx, accountID, *req.NotificationID, req.OperatorID)
		if err != nil {
			return nil, err
		}
		result.Notification = n
	}

	return result, nil
}

// markMerged transitions the notification after the lead writes committed. A
// transient failure is retried once, then left to the reconciler; the merge
// itself already succeeded. A conflict is reported back with the stored status.
func (r *Resolver) markMerged(ctx context.Context, accountID, notificationID uuid.UUID, operatorID *uuid.UUID) (*domain.DuplicateNotification, error) {
	n, err := r.queue.SetStatus(ctx, accountID, notificationID, domain.NotificationStatusMerged, operatorID)
	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		n, err = r.queue.SetStatus(ctx, accountID, notificationID, domain.NotificationStatusMerged, operatorID)
	}
	if errors.As(err, &storageErr) {
		log.Printf("[Merge] notification %s stuck pending after merge, leaving to reconciler: %v", notificationID, err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *Resolver) loadLive(ctx context.Context, accountID, id uuid.UUID) (*domain.Lead, error) {
	lead, err := r.leads.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "load lead", Err: err}
	}
	if lead == nil || lead.IsDeleted() {
		return nil, &domain.NotFoundError{Resource: "lead", ID: id}
	}
	return lead, nil
}

// snapshotLead flattens a lead into the JSONB shape stored in merge history.
func snapshotLead(l *domain.Lead) map[string]interface{} {
	raw, err := json.Marshal(l)
	if err != nil {
		return map[string]interface{}{"id": l.ID.String()}
	}
	var snap map[string]interface{}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return map[string]interface{}{"id": l.ID.String()}
	}
	return snap
}
