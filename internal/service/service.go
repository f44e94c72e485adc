package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/dedup"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/naperu/heraldo/internal/repository"
	"github.com/naperu/heraldo/internal/storage"
	"github.com/naperu/heraldo/internal/ws"
	"github.com/naperu/heraldo/pkg/cache"
	"golang.org/x/crypto/bcrypt"
)

type Services struct {
	Auth         *AuthService
	Account      *AccountService
	User         *UserService
	Lead         *LeadService
	Notification *NotificationService
	Merge        *MergeService
	Media        *MediaService
	Stats        *StatsService
}

func NewServices(repos *repository.Repositories, hub *ws.Hub, store *storage.Storage, c *cache.Cache) *Services {
	detector := dedup.NewDetector(repos.Lead, repos.Notification)
	queue := dedup.NewQueue(repos.Notification)
	resolver := dedup.NewResolver(repos.Lead, repos.MergeHistory, queue)

	return &Services{
		Auth:         &AuthService{repos: repos},
		Account:      &AccountService{repos: repos},
		User:         &UserService{repos: repos},
		Lead:         &LeadService{repos: repos, detector: detector, hub: hub, cache: c},
		Notification: &NotificationService{repos: repos, queue: queue, hub: hub, cache: c},
		Merge:        &MergeService{repos: repos, resolver: resolver, hub: hub, cache: c},
		Media:        &MediaService{repos: repos, store: store},
		Stats:        &StatsService{repos: repos, cache: c},
	}
}

// AuthService handles authentication
type AuthService struct {
	repos *repository.Repositories
}

type JWTClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	jwt.RegisteredClaims
}

func (s *AuthService) Login(ctx context.Context, username, password, jwtSecret string) (string, *domain.User, error) {
	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	// Generate JWT
	claims := &JWTClaims{
		UserID:    user.ID,
		AccountID: user.AccountID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * 7 * time.Hour)), // 7 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "heraldo",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, user, nil
}

func (s *AuthService) ValidateToken(tokenString, jwtSecret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repos.User.GetByID(ctx, userID)
}

// AccountService handles tenant administration
type AccountService struct {
	repos *repository.Repositories
}

func (s *AccountService) GetAll(ctx context.Context) ([]*domain.Account, error) {
	return s.repos.Account.GetAll(ctx)
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.repos.Account.GetByID(ctx, id)
}

func (s *AccountService) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Account, error) {
	return s.repos.Account.GetByAPIKey(ctx, apiKey)
}

func (s *AccountService) Create(ctx context.Context, name, slug, plan string) (*domain.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "account name is required"}
	}
	if plan == "" {
		plan = "free"
	}
	account := &domain.Account{Name: name, Slug: slug, Plan: plan}
	if err := s.repos.Account.Create(ctx, account); err != nil {
		return nil, &domain.StorageError{Op: "create account", Err: err}
	}
	return account, nil
}

func (s *AccountService) Update(ctx context.Context, account *domain.Account) error {
	return s.repos.Account.Update(ctx, account)
}

func (s *AccountService) RotateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	key, err := s.repos.Account.RotateAPIKey(ctx, id)
	if err != nil {
		return "", &domain.StorageError{Op: "rotate api key", Err: err}
	}
	if key == "" {
		return "", &domain.NotFoundError{Resource: "account", ID: id}
	}
	return key, nil
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Account.Delete(ctx, id)
}

// UserService handles user administration
type UserService struct {
	repos *repository.Repositories
}

func (s *UserService) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.User, error) {
	return s.repos.User.GetByAccountID(ctx, accountID)
}

func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.repos.User.GetAll(ctx)
}

func (s *UserService) Create(ctx context.Context, user *domain.User, password string) error {
	if user.Username == "" || user.Email == "" {
		return &domain.ValidationError{Field: "username", Message: "username and email are required"}
	}
	if len(password) < 6 {
		return &domain.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = domain.RoleAgent
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		return &domain.StorageError{Op: "create user", Err: err}
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, user *domain.User) error {
	return s.repos.User.Update(ctx, user)
}

func (s *UserService) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < 6 {
		return &domain.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repos.User.UpdatePassword(ctx, id, string(hash))
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.User.Delete(ctx, id)
}

// LeadService handles lead lifecycle including duplicate detection on intake
type LeadService struct {
	repos    *repository.Repositories
	detector *dedup.Detector
	hub      *ws.Hub
	cache    *cache.Cache
}

// CreateResult reports what happened when a candidate lead arrived.
type CreateResult struct {
	Lead         *domain.Lead
	Notification *domain.DuplicateNotification
}

// Create stores a candidate lead, running duplicate detection first so the
// candidate never matches itself. Detection and notification failures are
// logged; the lead is stored regardless.
func (s *LeadService) Create(ctx context.Context, accountID uuid.UUID, lead *domain.Lead) (*CreateResult, error) {
	if err := lead.ValidateIdentity(); err != nil {
		return nil, err
	}
	lead.AccountID = accountID

	match := s.detector.Evaluate(ctx, accountID, lead)

	if err := s.repos.Lead.Create(ctx, lead); err != nil {
		return nil, &domain.StorageError{Op: "create lead", Err: err}
	}

	result := &CreateResult{Lead: lead}
	if match != nil {
		if n := s.detector.Record(ctx, accountID, lead.ID, match); n != nil {
			result.Notification = n
			s.hub.BroadcastToAccount(accountID, ws.EventDuplicateFound, n)
		}
	}

	s.hub.BroadcastToAccount(accountID, ws.EventLeadUpdate, lead)
	s.invalidateStats(ctx, accountID)
	return result, nil
}

func (s *LeadService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.repos.Lead.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "load lead", Err: err}
	}
	if lead == nil {
		return nil, &domain.NotFoundError{Resource: "lead", ID: id}
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, accountID uuid.UUID, filter domain.LeadFilter) ([]*domain.Lead, error) {
	return s.repos.Lead.List(ctx, accountID, filter)
}

func (s *LeadService) Update(ctx context.Context, accountID uuid.UUID, lead *domain.Lead) error {
	existing, err := s.GetByID(ctx, accountID, lead.ID)
	if err != nil {
		return err
	}
	if existing.IsDeleted() {
		return &domain.NotFoundError{Resource: "lead", ID: lead.ID}
	}
	lead.AccountID = accountID
	if err := s.repos.Lead.Update(ctx, lead); err != nil {
		return &domain.StorageError{Op: "update lead", Err: err}
	}
	s.hub.BroadcastToAccount(accountID, ws.EventLeadUpdate, lead)
	s.invalidateStats(ctx, accountID)
	return nil
}

func (s *LeadService) UpdateStatus(ctx context.Context, accountID, id uuid.UUID, status string) error {
	switch status {
	case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusQualified,
		domain.LeadStatusProposal, domain.LeadStatusWon, domain.LeadStatusLost:
	default:
		return &domain.ValidationError{Field: "status", Message: "unknown lead status"}
	}
	if _, err := s.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.repos.Lead.UpdateStatus(ctx, accountID, id, status); err != nil {
		return &domain.StorageError{Op: "update lead status", Err: err}
	}
	s.invalidateStats(ctx, accountID)
	return nil
}

func (s *LeadService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.repos.Lead.SoftDelete(ctx, accountID, id, ""); err != nil {
		return &domain.StorageError{Op: "delete lead", Err: err}
	}
	s.hub.BroadcastToAccount(accountID, ws.EventLeadDeleted, map[string]interface{}{"id": id.String()})
	s.invalidateStats(ctx, accountID)
	return nil
}

// ImportSummary reports a CSV import run.
type ImportSummary struct {
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// ImportCSV creates a lead per row, running each through detection. Expected
// header: name,email,phone plus optional interest,company_name,notes columns.
func (s *LeadService) ImportCSV(ctx context.Context, accountID uuid.UUID, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.ValidationError{Field: "file", Message: "empty or unreadable CSV"}
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		if _, ok := cols["email"]; !ok {
			return nil, &domain.ValidationError{Field: "file", Message: "CSV must have a name or email column"}
		}
	}

	summary := &ImportSummary{}
	origin := domain.LeadOriginCSV
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		lead := &domain.Lead{Origin: &origin}
		lead.Name = csvField(record, cols, "name")
		lead.Email = csvField(record, cols, "email")
		lead.Phone = csvField(record, cols, "phone")
		lead.Interest = csvField(record, cols, "interest")
		lead.CompanyName = csvField(record, cols, "company_name")
		lead.CompanyTaxID = csvField(record, cols, "company_tax_id")
		lead.CompanyEmail = csvField(record, cols, "company_email")
		lead.Notes = csvField(record, cols, "notes")

		result, err := s.Create(ctx, accountID, lead)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		summary.Created++
		if result.Notification != nil {
			summary.Duplicates++
		}
	}
	return summary, nil
}

func csvField(record []string, cols map[string]int, name string) *string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return nil
	}
	v := strings.TrimSpace(record[idx])
	if v == "" {
		return nil
	}
	return &v
}

func (s *LeadService) invalidateStats(ctx context.Context, accountID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAccount(ctx, accountID.String()); err != nil {
		log.Printf("[Lead] failed to invalidate stats cache for account %s: %v", accountID, err)
	}
}

// NotificationService handles the duplicate review queue
type NotificationService struct {
	repos *repository.Repositories
	queue *dedup.Queue
	hub   *ws.Hub
	cache *cache.Cache
}

func (s *NotificationService) ListPending(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.DuplicateNotification, error) {
	return s.queue.ListPending(ctx, accountID, limit, offset)
}

func (s *NotificationService) Get(ctx context.Context, accountID, id uuid.UUID) (*domain.DuplicateNotification, error) {
	n, err := s.repos.Notification.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "load notification", Err: err}
	}
	if n == nil {
		return nil, &domain.NotFoundError{Resource: "notification", ID: id}
	}
	return n, nil
}

// Resolve applies an operator decision. Only ignored and reviewed are
// accepted here; merged is reserved for the merge resolver.
func (s *NotificationService) Resolve(ctx context.Context, accountID, id uuid.UUID, status string, operatorID *uuid.UUID) (*domain.DuplicateNotification, error) {
	if status != domain.NotificationStatusIgnored && status != domain.NotificationStatusReviewed {
		return nil, &domain.ValidationError{Field: "status", Message: "must be ignored or reviewed"}
	}
	n, err := s.queue.SetStatus(ctx, accountID, id, status, operatorID)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastToAccount(accountID, ws.EventNotificationUpdate, n)
	if s.cache != nil {
		if err := s.cache.InvalidateAccount(ctx, accountID.String()); err != nil {
			log.Printf("[Notification] failed to invalidate stats cache for account %s: %v", accountID, err)
		}
	}
	return n, nil
}

// MergeService executes merges and exposes the audit trail
type MergeService struct {
	repos    *repository.Repositories
	resolver *dedup.Resolver
	hub      *ws.Hub
	cache    *cache.Cache
}

func (s *MergeService) Execute(ctx context.Context, accountID uuid.UUID, req dedup.MergeRequest) (*dedup.MergeResult, error) {
	result, err := s.resolver.Execute(ctx, accountID, req)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToAccount(accountID, ws.EventMergeCompleted, map[string]interface{}{
		"survivor_id": result.Survivor.ID.String(),
		"merged_id":   result.MergedID.String(),
		"strategy":    req.Strategy,
	})
	s.hub.BroadcastToAccount(accountID, ws.EventLeadUpdate, result.Survivor)
	if result.Notification != nil {
		s.hub.BroadcastToAccount(accountID, ws.EventNotificationUpdate, result.Notification)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAccount(ctx, accountID.String()); err != nil {
			log.Printf("[Merge] failed to invalidate stats cache for account %s: %v", accountID, err)
		}
	}
	return result, nil
}

func (s *MergeService) History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.MergeHistory, error) {
	entries, err := s.repos.MergeHistory.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list merge history", Err: err}
	}
	return entries, nil
}

// MediaService handles the media library. store is nil when MinIO is not
// configured; every object operation checks before touching it.
type MediaService struct {
	repos *repository.Repositories
	store *storage.Storage
}

// errStorageNotConfigured is returned instead of dereferencing a nil store.
func errStorageNotConfigured() error {
	return &domain.ValidationError{Field: "storage", Message: "storage not configured"}
}

func (s *MediaService) Upload(ctx context.Context, accountID uuid.UUID, leadID, uploadedBy *uuid.UUID, filename, contentType string, data []byte) (*domain.MediaFile, error) {
	if s.store == nil {
		return nil, errStorageNotConfigured()
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "empty file"}
	}
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	objectPath := storage.GenerateUploadPath(ext)
	if leadID != nil {
		objectPath = storage.GenerateLeadAttachmentPath(*leadID, filename)
	}
	url, err := s.store.UploadFile(ctx, accountID, "", objectPath, data, contentType)
	if err != nil {
		return nil, &domain.StorageError{Op: "upload media", Err: err}
	}

	media := &domain.MediaFile{
		AccountID:   accountID,
		LeadID:      leadID,
		URL:         url,
		FileName:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedBy:  uploadedBy,
	}
	if err := s.repos.Media.Create(ctx, media); err != nil {
		return nil, &domain.StorageError{Op: "record media", Err: err}
	}
	return media, nil
}

func (s *MediaService) PresignUpload(ctx context.Context, accountID uuid.UUID, filename string) (string, error) {
	if s.store == nil {
		return "", errStorageNotConfigured()
	}
	if strings.TrimSpace(filename) == "" {
		return "", &domain.ValidationError{Field: "filename", Message: "filename is required"}
	}
	url, err := s.store.GetPresignedUploadURL(ctx, accountID, "uploads", filename)
	if err != nil {
		return "", &domain.StorageError{Op: "presign upload", Err: err}
	}
	return url, nil
}

func (s *MediaService) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.MediaFile, error) {
	return s.repos.Media.ListByAccount(ctx, accountID, limit, offset)
}

func (s *MediaService) GetFile(ctx context.Context, objectKey string) ([]byte, string, error) {
	if s.store == nil {
		return nil, "", errStorageNotConfigured()
	}
	info, err := s.store.GetFileInfo(ctx, objectKey)
	if err != nil {
		return nil, "", &domain.StorageError{Op: "stat media", Err: err}
	}
	data, err := s.store.GetFile(ctx, objectKey)
	if err != nil {
		return nil, "", &domain.StorageError{Op: "read media", Err: err}
	}
	return data, info.ContentType, nil
}

// StatsService serves per-tenant dashboard counters, cached in redis
type StatsService struct {
	repos *repository.Repositories
	cache *cache.Cache
}

// Stats is the dashboard payload.
type Stats struct {
	TotalLeads        int            `json:"total_leads"`
	LeadsByStatus     map[string]int `json:"leads_by_status"`
	PendingDuplicates int            `json:"pending_duplicates"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

const statsTTL = 60 * time.Second

func (s *StatsService) Get(ctx context.Context, accountID uuid.UUID) (*Stats, error) {
	key := cache.StatsKey(accountID.String())
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
			stats := &Stats{}
			if err := json.Unmarshal(data, stats); err == nil {
				return stats, nil
			}
		}
	}

	total, err := s.repos.Lead.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, &domain.StorageError{Op: "count leads", Err: err}
	}
	byStatus, err := s.repos.Lead.CountByStatus(ctx, accountID)
	if err != nil {
		return nil, &domain.StorageError{Op: "count leads by status", Err: err}
	}
	pending, err := s.repos.Notification.CountPending(ctx, accountID)
	if err != nil {
		return nil, &domain.StorageError{Op: "count pending notifications", Err: err}
	}

	stats := &Stats{
		TotalLeads:        total,
		LeadsByStatus:     byStatus,
		PendingDuplicates: pending,
		GeneratedAt:       time.Now().UTC(),
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, data, statsTTL); err != nil {
				log.Printf("[Stats] failed to cache stats for account %s: %v", accountID, err)
			}
		}
	}
	return stats, nil
}
