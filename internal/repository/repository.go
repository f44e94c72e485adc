package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naperu/heraldo/internal/domain"
)

type Repositories struct {
	db           *pgxpool.Pool
	User         *UserRepository
	Account      *AccountRepository
	Lead         *LeadRepository
	Notification *NotificationRepository
	MergeHistory *MergeHistoryRepository
	Media        *MediaRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		db:           db,
		User:         &UserRepository{db: db},
		Account:      &AccountRepository{db: db},
		Lead:         &LeadRepository{db: db},
		Notification: &NotificationRepository{db: db},
		MergeHistory: &MergeHistoryRepository{db: db},
		Media:        &MediaRepository{db: db},
	}
}

// DB returns the underlying database pool.
func (r *Repositories) DB() *pgxpool.Pool {
	return r.db
}

// UserRepository handles user data access
type UserRepository struct {
	db *pgxpool.Pool
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx, `
		SELECT u.id, u.account_id, u.username, u.email, u.password_hash, u.display_name, u.role, u.is_admin, u.is_super_admin, u.is_active, u.created_at, u.updated_at, a.name
		FROM users u JOIN accounts a ON a.id = u.account_id
		WHERE u.username = $1 AND u.is_active = TRUE
	`, username).Scan(
		&user.ID, &user.AccountID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Role, &user.IsAdmin, &user.IsSuperAdmin, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.AccountName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx, `
		SELECT u.id, u.account_id, u.username, u.email, u.password_hash, u.display_name, u.role, u.is_admin, u.is_super_admin, u.is_active, u.created_at, u.updated_at, a.name
		FROM users u JOIN accounts a ON a.id = u.account_id
		WHERE u.id = $1
	`, id).Scan(
		&user.ID, &user.AccountID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Role, &user.IsAdmin, &user.IsSuperAdmin, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.AccountName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.account_id, u.username, u.email, u.password_hash, u.display_name, u.role, u.is_admin, u.is_super_admin, u.is_active, u.created_at, u.updated_at, a.name
		FROM users u JOIN accounts a ON a.id = u.account_id
		WHERE u.account_id = $1 ORDER BY u.created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID, &user.AccountID, &user.Username, &user.Email, &user.PasswordHash,
			&user.DisplayName, &user.Role, &user.IsAdmin, &user.IsSuperAdmin, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.AccountName,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.account_id, u.username, u.email, u.password_hash, u.display_name, u.role, u.is_admin, u.is_super_admin, u.is_active, u.created_at, u.updated_at, a.name
		FROM users u JOIN accounts a ON a.id = u.account_id
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID, &user.AccountID, &user.Username, &user.Email, &user.PasswordHash,
			&user.DisplayName, &user.Role, &user.IsAdmin, &user.IsSuperAdmin, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.AccountName,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO users (account_id, username, email, password_hash, display_name, role, is_admin, is_super_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, updated_at
	`, user.AccountID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Role, user.IsAdmin, user.IsSuperAdmin).Scan(
		&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET username = $2, email = $3, display_name = $4, role = $5, is_admin = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.DisplayName, user.Role, user.IsAdmin, user.IsActive)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// AccountRepository handles tenant account data access
type AccountRepository struct {
	db *pgxpool.Pool
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account := &domain.Account{}
	var apiKey *string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, COALESCE(slug, ''), plan, api_key, is_active, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id).Scan(&account.ID, &account.Name, &account.Slug, &account.Plan, &apiKey, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if apiKey != nil {
		account.APIKey = *apiKey
	}
	return account, err
}

func (r *AccountRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Account, error) {
	if apiKey == "" {
		return nil, nil
	}
	account := &domain.Account{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, COALESCE(slug, ''), plan, api_key, is_active, created_at, updated_at
		FROM accounts WHERE api_key = $1 AND is_active = TRUE
	`, apiKey).Scan(&account.ID, &account.Name, &account.Slug, &account.Plan, &account.APIKey, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return account, err
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.name, COALESCE(a.slug, ''), a.plan, COALESCE(a.api_key, ''), a.is_active, a.created_at, a.updated_at,
			(SELECT COUNT(*) FROM users u WHERE u.account_id = a.id),
			(SELECT COUNT(*) FROM leads l WHERE l.account_id = a.id AND l.deleted_at IS NULL)
		FROM accounts a
		ORDER BY a.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(
			&account.ID, &account.Name, &account.Slug, &account.Plan, &account.APIKey,
			&account.IsActive, &account.CreatedAt, &account.UpdatedAt,
			&account.UserCount, &account.LeadCount,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO accounts (name, slug, plan, api_key)
		VALUES ($1, $2, $3, encode(gen_random_bytes(24), 'hex'))
		RETURNING id, api_key, is_active, created_at, updated_at
	`, account.Name, account.Slug, account.Plan).Scan(
		&account.ID, &account.APIKey, &account.IsActive, &account.CreatedAt, &account.UpdatedAt,
	)
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET name = $2, slug = $3, plan = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`, account.ID, account.Name, account.Slug, account.Plan, account.IsActive)
	return err
}

// RotateAPIKey generates a fresh webhook key and returns it.
func (r *AccountRepository) RotateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	var key string
	err := r.db.QueryRow(ctx, `
		UPDATE accounts SET api_key = encode(gen_random_bytes(24), 'hex'), updated_at = NOW()
		WHERE id = $1
		RETURNING api_key
	`, id).Scan(&key)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return key, err
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

// LeadRepository handles lead data access
type LeadRepository struct {
	db *pgxpool.Pool
}

const leadColumns = `id, account_id, name, phone, email, status, origin, interest, visitor_id,
	company_name, company_tax_id, company_email, notes, tags, custom_fields, assigned_to,
	COALESCE(duplicate_status, ''), deleted_at, created_at, updated_at`

func scanLead(row pgx.Row) (*domain.Lead, error) {
	lead := &domain.Lead{}
	var customFields []byte
	err := row.Scan(
		&lead.ID, &lead.AccountID, &lead.Name, &lead.Phone, &lead.Email, &lead.Status,
		&lead.Origin, &lead.Interest, &lead.VisitorID, &lead.CompanyName, &lead.CompanyTaxID,
		&lead.CompanyEmail, &lead.Notes, &lead.Tags, &customFields, &lead.AssignedTo,
		&lead.DuplicateStatus, &lead.DeletedAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &lead.CustomFields); err != nil {
			return nil, fmt.Errorf("failed to decode custom_fields for lead %s: %w", lead.ID, err)
		}
	}
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	customFields, err := json.Marshal(lead.CustomFields)
	if err != nil {
		return fmt.Errorf("failed to encode custom_fields: %w", err)
	}
	if lead.CustomFields == nil {
		customFields = []byte(`{}`)
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO leads (account_id, name, phone, email, status, origin, interest, visitor_id,
			company_name, company_tax_id, company_email, notes, tags, custom_fields, assigned_to)
		VALUES ($1, $2, $3, $4, COALESCE($5, 'new'), $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, status, created_at, updated_at
	`, lead.AccountID, lead.Name, lead.Phone, lead.Email, lead.Status, lead.Origin, lead.Interest,
		lead.VisitorID, lead.CompanyName, lead.CompanyTaxID, lead.CompanyEmail, lead.Notes,
		lead.Tags, customFields, lead.AssignedTo).Scan(
		&lead.ID, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt,
	)
}

func (r *LeadRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1 AND account_id = $2
	`, id, accountID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

// FindByPhoneOrEmail returns non-deleted leads in the tenant matching the
// given phone or email. Empty values never match.
func (r *LeadRepository) FindByPhoneOrEmail(ctx context.Context, accountID uuid.UUID, phone, email string) ([]*domain.Lead, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE account_id = $1 AND deleted_at IS NULL
		  AND (($2 != '' AND phone = $2) OR ($3 != '' AND email = $3))
		ORDER BY created_at ASC
	`, accountID, phone, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (r *LeadRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.LeadFilter) ([]*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE account_id = $1`
	args := []interface{}{accountID}
	argIdx := 2

	if !filter.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Origin != "" {
		query += fmt.Sprintf(` AND origin = $%d`, argIdx)
		args = append(args, filter.Origin)
		argIdx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR company_name ILIKE $%d)`, argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argIdx)
		args = append(args, filter.Limit)
		argIdx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	customFields, err := json.Marshal(lead.CustomFields)
	if err != nil {
		return fmt.Errorf("failed to encode custom_fields: %w", err)
	}
	if lead.CustomFields == nil {
		customFields = []byte(`{}`)
	}
	_, err = r.db.Exec(ctx, `
		UPDATE leads SET name = $3, phone = $4, email = $5, status = $6, origin = $7,
			interest = $8, visitor_id = $9, company_name = $10, company_tax_id = $11,
			company_email = $12, notes = $13, tags = $14, custom_fields = $15,
			assigned_to = $16, updated_at = NOW()
		WHERE id = $1 AND account_id = $2
	`, lead.ID, lead.AccountID, lead.Name, lead.Phone, lead.Email, lead.Status, lead.Origin,
		lead.Interest, lead.VisitorID, lead.CompanyName, lead.CompanyTaxID, lead.CompanyEmail,
		lead.Notes, lead.Tags, customFields, lead.AssignedTo)
	return err
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, accountID, id uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE leads SET status = $3, updated_at = NOW() WHERE id = $1 AND account_id = $2
	`, id, accountID, status)
	return err
}

// SoftDelete marks the lead deleted. A non-empty reasonTag additionally sets
// duplicate_status (used by the merge resolver to tag the losing record).
func (r *LeadRepository) SoftDelete(ctx context.Context, accountID, id uuid.UUID, reasonTag string) error {
	var err error
	if reasonTag != "" {
		_, err = r.db.Exec(ctx, `
			UPDATE leads SET deleted_at = NOW(), duplicate_status = $3, updated_at = NOW()
			WHERE id = $1 AND account_id = $2 AND deleted_at IS NULL
		`, id, accountID, reasonTag)
	} else {
		_, err = r.db.Exec(ctx, `
			UPDATE leads SET deleted_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND account_id = $2 AND deleted_at IS NULL
		`, id, accountID)
	}
	return err
}

// ApplyMerge persists a merge outcome atomically: the survivor row takes the
// planned field values and the losing row is soft-deleted and tagged. Both
// writes land or neither does.
func (r *LeadRepository) ApplyMerge(ctx context.Context, survivor *domain.Lead, loserID uuid.UUID) error {
	customFields, err := json.Marshal(survivor.CustomFields)
	if err != nil {
		return fmt.Errorf("failed to encode custom_fields: %w", err)
	}
	if survivor.CustomFields == nil {
		customFields = []byte(`{}`)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE leads SET name = $3, phone = $4, email = $5, status = $6, origin = $7,
			interest = $8, visitor_id = $9, company_name = $10, company_tax_id = $11,
			company_email = $12, notes = $13, tags = $14, custom_fields = $15,
			assigned_to = $16, duplicate_status = NULL, updated_at = NOW()
		WHERE id = $1 AND account_id = $2
	`, survivor.ID, survivor.AccountID, survivor.Name, survivor.Phone, survivor.Email,
		survivor.Status, survivor.Origin, survivor.Interest, survivor.VisitorID,
		survivor.CompanyName, survivor.CompanyTaxID, survivor.CompanyEmail, survivor.Notes,
		survivor.Tags, customFields, survivor.AssignedTo)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE leads SET deleted_at = COALESCE(deleted_at, NOW()), duplicate_status = $3, updated_at = NOW()
		WHERE id = $1 AND account_id = $2
	`, loserID, survivor.AccountID, domain.DuplicateStatusMerged)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *LeadRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads WHERE account_id = $1 AND deleted_at IS NULL
	`, accountID).Scan(&count)
	return count, err
}

func (r *LeadRepository) CountByStatus(ctx context.Context, accountID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM leads
		WHERE account_id = $1 AND deleted_at IS NULL
		GROUP BY status
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}

// NotificationRepository handles duplicate notification data access
type NotificationRepository struct {
	db *pgxpool.Pool
}

const notificationColumns = `n.id, n.account_id, n.lead_id, n.duplicate_of_lead_id, n.match_reason,
	n.status, n.reviewed_at, n.reviewed_by, n.created_at,
	c.name, c.email, c.phone, i.name, i.email, i.phone`

const notificationJoins = `FROM duplicate_notifications n
	JOIN leads c ON c.id = n.lead_id
	JOIN leads i ON i.id = n.duplicate_of_lead_id`

func scanNotification(row pgx.Row) (*domain.DuplicateNotification, error) {
	n := &domain.DuplicateNotification{}
	err := row.Scan(
		&n.ID, &n.AccountID, &n.LeadID, &n.DuplicateOfLead, &n.MatchReason,
		&n.Status, &n.ReviewedAt, &n.ReviewedBy, &n.CreatedAt,
		&n.CandidateName, &n.CandidateEmail, &n.CandidatePhone,
		&n.IncumbentName, &n.IncumbentEmail, &n.IncumbentPhone,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.DuplicateNotification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO duplicate_notifications (account_id, lead_id, duplicate_of_lead_id, match_reason, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at
	`, n.AccountID, n.LeadID, n.DuplicateOfLead, n.MatchReason).Scan(&n.ID, &n.Status, &n.CreatedAt)
}

func (r *NotificationRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.DuplicateNotification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx, `
		SELECT `+notificationColumns+` `+notificationJoins+`
		WHERE n.id = $1 AND n.account_id = $2
	`, id, accountID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return n, err
}

// ListPending returns pending notifications newest-first with both leads'
// identity fields denormalized for operator review.
func (r *NotificationRepository) ListPending(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.DuplicateNotification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+notificationColumns+` `+notificationJoins+`
		WHERE n.account_id = $1 AND n.status = 'pending'
		ORDER BY n.created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.DuplicateNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// UpdateStatusConditional transitions the notification only while its stored
// status is one of expected. Returns true when the row was updated. This is
// the serialization point for racing resolutions of the same notification.
func (r *NotificationRepository) UpdateStatusConditional(ctx context.Context, accountID, id uuid.UUID, expected []string, newStatus string, operatorID *uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE duplicate_notifications
		SET status = $4, reviewed_at = NOW(), reviewed_by = $5
		WHERE id = $1 AND account_id = $2 AND status = ANY($3)
	`, id, accountID, expected, newStatus, operatorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) CountPending(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM duplicate_notifications WHERE account_id = $1 AND status = 'pending'
	`, accountID).Scan(&count)
	return count, err
}

// MergeHistoryRepository handles the append-only merge audit trail
type MergeHistoryRepository struct {
	db *pgxpool.Pool
}

func (r *MergeHistoryRepository) Append(ctx context.Context, h *domain.MergeHistory) error {
	sourceSnap, err := json.Marshal(h.SourceSnapshot)
	if err != nil {
		return fmt.Errorf("failed to encode source snapshot: %w", err)
	}
	targetSnap, err := json.Marshal(h.TargetSnapshot)
	if err != nil {
		return fmt.Errorf("failed to encode target snapshot: %w", err)
	}
	resultSnap, err := json.Marshal(h.ResultSnapshot)
	if err != nil {
		return fmt.Errorf("failed to encode result snapshot: %w", err)
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO merge_history (account_id, source_lead_id, target_lead_id, result_lead_id,
			strategy, merged_by, notification_id, source_snapshot, target_snapshot, result_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, h.AccountID, h.SourceLeadID, h.TargetLeadID, h.ResultLeadID, h.Strategy, h.MergedBy,
		h.NotificationID, sourceSnap, targetSnap, resultSnap).Scan(&h.ID, &h.CreatedAt)
}

func (r *MergeHistoryRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.MergeHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, source_lead_id, target_lead_id, result_lead_id, strategy,
			merged_by, notification_id, source_snapshot, target_snapshot, result_snapshot, created_at
		FROM merge_history
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.MergeHistory
	for rows.Next() {
		h, err := scanMergeHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, nil
}

// ListLagged returns merge history rows older than the grace period whose
// linked notification never reached the merged status. The reconciler uses
// these to re-apply the transition.
func (r *MergeHistoryRepository) ListLagged(ctx context.Context, grace time.Duration, limit int) ([]*domain.MergeHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT h.id, h.account_id, h.source_lead_id, h.target_lead_id, h.result_lead_id, h.strategy,
			h.merged_by, h.notification_id, h.source_snapshot, h.target_snapshot, h.result_snapshot, h.created_at
		FROM merge_history h
		JOIN duplicate_notifications n ON n.id = h.notification_id
		WHERE n.status = 'pending' AND h.created_at < NOW() - $1::interval
		ORDER BY h.created_at ASC
		LIMIT $2
	`, fmt.Sprintf("%d seconds", int(grace.Seconds())), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.MergeHistory
	for rows.Next() {
		h, err := scanMergeHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, nil
}

func scanMergeHistory(row pgx.Row) (*domain.MergeHistory, error) {
	h := &domain.MergeHistory{}
	var sourceSnap, targetSnap, resultSnap []byte
	err := row.Scan(
		&h.ID, &h.AccountID, &h.SourceLeadID, &h.TargetLeadID, &h.ResultLeadID, &h.Strategy,
		&h.MergedBy, &h.NotificationID, &sourceSnap, &targetSnap, &resultSnap, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(sourceSnap) > 0 {
		if err := json.Unmarshal(sourceSnap, &h.SourceSnapshot); err != nil {
			return nil, fmt.Errorf("failed to decode source snapshot: %w", err)
		}
	}
	if len(targetSnap) > 0 {
		if err := json.Unmarshal(targetSnap, &h.TargetSnapshot); err != nil {
			return nil, fmt.Errorf("failed to decode target snapshot: %w", err)
		}
	}
	if len(resultSnap) > 0 {
		if err := json.Unmarshal(resultSnap, &h.ResultSnapshot); err != nil {
			return nil, fmt.Errorf("failed to decode result snapshot: %w", err)
		}
	}
	return h, nil
}

// MediaRepository handles media library records
type MediaRepository struct {
	db *pgxpool.Pool
}

func (r *MediaRepository) Create(ctx context.Context, m *domain.MediaFile) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO media_files (account_id, lead_id, url, file_name, content_type, size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, m.AccountID, m.LeadID, m.URL, m.FileName, m.ContentType, m.Size, m.UploadedBy).Scan(&m.ID, &m.CreatedAt)
}

func (r *MediaRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.MediaFile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, lead_id, url, COALESCE(file_name, ''), COALESCE(content_type, ''), size, uploaded_by, created_at
		FROM media_files
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*domain.MediaFile
	for rows.Next() {
		m := &domain.MediaFile{}
		if err := rows.Scan(&m.ID, &m.AccountID, &m.LeadID, &m.URL, &m.FileName, &m.ContentType, &m.Size, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, m)
	}
	return files, nil
}
