package api

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/naperu/heraldo/internal/dedup"
	"github.com/naperu/heraldo/internal/domain"
	"github.com/naperu/heraldo/internal/storage"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var validation *domain.ValidationError
	var notFound *domain.NotFoundError
	var conflict *domain.ConflictError
	var storageErr *domain.StorageError

	switch {
	case errors.As(err, &validation):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": validation.Error()})
	case errors.As(err, &notFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "error": notFound.Error()})
	case errors.As(err, &conflict):
		return c.Status(409).JSON(fiber.Map{
			"success":        false,
			"error":          conflict.Error(),
			"current_status": conflict.Current,
		})
	case errors.As(err, &storageErr):
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "storage failure, please retry"})
	}
	return c.Status(500).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: name, Message: "invalid id"}
	}
	return id, nil
}

func operatorID(c *fiber.Ctx) *uuid.UUID {
	if v, ok := c.Locals("user_id").(uuid.UUID); ok {
		return &v
	}
	return nil
}

type leadRequest struct {
	Name         *string                `json:"name"`
	Phone        *string                `json:"phone"`
	Email        *string                `json:"email"`
	Status       *string                `json:"status"`
	Origin       *string                `json:"origin"`
	Interest     *string                `json:"interest"`
	VisitorID    *string                `json:"visitor_id"`
	CompanyName  *string                `json:"company_name"`
	CompanyTaxID *string                `json:"company_tax_id"`
	CompanyEmail *string                `json:"company_email"`
	Notes        *string                `json:"notes"`
	Tags         []string               `json:"tags"`
	CustomFields map[string]interface{} `json:"custom_fields"`
	AssignedTo   *uuid.UUID             `json:"assigned_to"`
}

func (r *leadRequest) toLead() *domain.Lead {
	return &domain.Lead{
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		Status:       r.Status,
		Origin:       r.Origin,
		Interest:     r.Interest,
		VisitorID:    r.VisitorID,
		CompanyName:  r.CompanyName,
		CompanyTaxID: r.CompanyTaxID,
		CompanyEmail: r.CompanyEmail,
		Notes:        r.Notes,
		Tags:         r.Tags,
		CustomFields: r.CustomFields,
		AssignedTo:   r.AssignedTo,
	}
}

// --- Webhook intake ---

func (s *Server) handleWebhookLead(c *fiber.Ctx) error {
	account, err := s.services.Account.GetByAPIKey(c.Context(), c.Params("key"))
	if err != nil {
		return respondError(c, &domain.StorageError{Op: "resolve api key", Err: err})
	}
	if account == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid API key"})
	}

	var req leadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	lead := req.toLead()
	if lead.Origin == nil {
		lead.Origin = strPtr(domain.LeadOriginWebhook)
	}

	result, err := s.services.Lead.Create(c.Context(), account.ID, lead)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"success":            true,
		"lead_id":            result.Lead.ID,
		"duplicate_detected": result.Notification != nil,
	}
	if result.Notification != nil {
		resp["notification_id"] = result.Notification.ID
	}
	return c.Status(201).JSON(resp)
}

// --- Lead Handlers ---

func (s *Server) handleGetLeads(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	filter := domain.LeadFilter{
		Search:         c.Query("search"),
		Status:         c.Query("status"),
		Origin:         c.Query("origin"),
		IncludeDeleted: c.Query("include_deleted") == "true",
		Limit:          limit,
		Offset:         offset,
	}

	leads, err := s.services.Lead.List(c.Context(), accountID, filter)
	if err != nil {
		return respondError(c, err)
	}
	if leads == nil {
		leads = []*domain.Lead{}
	}
	return c.JSON(fiber.Map{"success": true, "leads": leads})
}

func (s *Server) handleCreateLead(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)

	var req leadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	lead := req.toLead()
	if lead.Origin == nil {
		lead.Origin = strPtr(domain.LeadOriginManual)
	}

	result, err := s.services.Lead.Create(c.Context(), accountID, lead)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"success":            true,
		"lead":               result.Lead,
		"duplicate_detected": result.Notification != nil,
	}
	if result.Notification != nil {
		resp["notification"] = result.Notification
	}
	return c.Status(201).JSON(resp)
}

func (s *Server) handleGetLead(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	lead, err := s.services.Lead.GetByID(c.Context(), accountID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "lead": lead})
}

func (s *Server) handleUpdateLead(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req leadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	lead := req.toLead()
	lead.ID = id
	if err := s.services.Lead.Update(c.Context(), accountID, lead); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "lead": lead})
}

func (s *Server) handleUpdateLeadStatus(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := s.services.Lead.UpdateStatus(c.Context(), accountID, id, req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleDeleteLead(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.services.Lead.Delete(c.Context(), accountID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleImportCSV(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Missing file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Cannot read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Cannot read file"})
	}

	// Archive the raw upload so a bad import can be replayed. Best-effort,
	// the import itself does not depend on object storage.
	if s.storage != nil {
		if _, err := s.storage.UploadFile(c.Context(), accountID, "", storage.GenerateImportPath(), data, "text/csv"); err != nil {
			log.Printf("[Import] failed to archive CSV for account %s: %v", accountID, err)
		}
	}

	summary, err := s.services.Lead.ImportCSV(c.Context(), accountID, bytes.NewReader(data))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "summary": summary})
}

// --- Duplicate Queue Handlers ---

func (s *Server) handleGetDuplicates(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	notifications, err := s.services.Notification.ListPending(c.Context(), accountID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	if notifications == nil {
		notifications = []*domain.DuplicateNotification{}
	}
	return c.JSON(fiber.Map{"success": true, "notifications": notifications})
}

func (s *Server) handleResolveDuplicate(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	n, err := s.services.Notification.Resolve(c.Context(), accountID, id, req.Status, operatorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "notification": n})
}

type mergeBody struct {
	SourceLeadID *uuid.UUID `json:"source_lead_id"`
	TargetLeadID *uuid.UUID `json:"target_lead_id"`
	Strategy     string     `json:"strategy"`
}

// handleMergeDuplicate merges the two leads referenced by a notification. The
// candidate is the source and the incumbent the target; the body may flip that
// by naming source/target explicitly, and the strategy decides which survives.
func (s *Server) handleMergeDuplicate(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req mergeBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	n, err := s.services.Notification.Get(c.Context(), accountID, notificationID)
	if err != nil {
		return respondError(c, err)
	}

	mergeReq := dedup.MergeRequest{
		SourceID:       n.LeadID,
		TargetID:       n.DuplicateOfLead,
		Strategy:       req.Strategy,
		NotificationID: &notificationID,
		OperatorID:     operatorID(c),
	}
	if req.SourceLeadID != nil {
		mergeReq.SourceID = *req.SourceLeadID
	}
	if req.TargetLeadID != nil {
		mergeReq.TargetID = *req.TargetLeadID
	}

	result, err := s.services.Merge.Execute(c.Context(), accountID, mergeReq)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"survivor":     result.Survivor,
		"history_id":   historyID(result),
		"notification": result.Notification,
	})
}

// handleMergeLeads merges two explicitly named leads, optionally linked to a
// notification.
func (s *Server) handleMergeLeads(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)

	var req struct {
		SourceLeadID   uuid.UUID  `json:"source_lead_id"`
		TargetLeadID   uuid.UUID  `json:"target_lead_id"`
		Strategy       string     `json:"strategy"`
		NotificationID *uuid.UUID `json:"notification_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	result, err := s.services.Merge.Execute(c.Context(), accountID, dedup.MergeRequest{
		SourceID:       req.SourceLeadID,
		TargetID:       req.TargetLeadID,
		Strategy:       req.Strategy,
		NotificationID: req.NotificationID,
		OperatorID:     operatorID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"survivor":     result.Survivor,
		"history_id":   historyID(result),
		"notification": result.Notification,
	})
}

func historyID(result *dedup.MergeResult) interface{} {
	if result.History == nil {
		return nil
	}
	return result.History.ID
}

func (s *Server) handleGetMergeHistory(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	entries, err := s.services.Merge.History(c.Context(), accountID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	if entries == nil {
		entries = []*domain.MergeHistory{}
	}
	return c.JSON(fiber.Map{"success": true, "history": entries})
}

// --- Media Handlers ---

func (s *Server) handleGetUploadURL(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	filename := c.Query("filename")

	url, err := s.services.Media.PresignUpload(c.Context(), accountID, filename)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "upload_url": url})
}

func (s *Server) handleDirectUpload(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Missing file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Cannot read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Cannot read file"})
	}

	var leadID *uuid.UUID
	if raw := c.FormValue("lead_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid lead_id"})
		}
		leadID = &parsed
	}

	contentType := fileHeader.Header.Get("Content-Type")
	media, err := s.services.Media.Upload(c.Context(), accountID, leadID, operatorID(c), fileHeader.Filename, contentType, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "media": media})
}

func (s *Server) handleGetMedia(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	files, err := s.services.Media.List(c.Context(), accountID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	if files == nil {
		files = []*domain.MediaFile{}
	}
	return c.JSON(fiber.Map{"success": true, "files": files})
}

func (s *Server) handleMediaProxy(c *fiber.Ctx) error {
	objectKey := c.Params("*")
	if objectKey == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Missing object key"})
	}

	data, contentType, err := s.services.Media.GetFile(c.Context(), objectKey)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "File not found"})
	}

	if contentType != "" {
		c.Set("Content-Type", contentType)
	}
	c.Set("Cache-Control", "public, max-age=86400")
	return c.Send(data)
}

// --- Stats Handler ---

func (s *Server) handleGetStats(c *fiber.Ctx) error {
	accountID := c.Locals("account_id").(uuid.UUID)

	stats, err := s.services.Stats.Get(c.Context(), accountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// --- Admin Handlers ---

func (s *Server) handleAdminGetAccounts(c *fiber.Ctx) error {
	accounts, err := s.services.Account.GetAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	return c.JSON(fiber.Map{"success": true, "accounts": accounts})
}

func (s *Server) handleAdminCreateAccount(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	account, err := s.services.Account.Create(c.Context(), req.Name, req.Slug, req.Plan)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "account": account})
}

func (s *Server) handleAdminGetAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	account, err := s.services.Account.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if account == nil {
		return respondError(c, &domain.NotFoundError{Resource: "account", ID: id})
	}
	return c.JSON(fiber.Map{"success": true, "account": account})
}

func (s *Server) handleAdminUpdateAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	account, err := s.services.Account.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if account == nil {
		return respondError(c, &domain.NotFoundError{Resource: "account", ID: id})
	}

	var req struct {
		Name *string `json:"name"`
		Slug *string `json:"slug"`
		Plan *string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Slug != nil {
		account.Slug = *req.Slug
	}
	if req.Plan != nil {
		account.Plan = *req.Plan
	}

	if err := s.services.Account.Update(c.Context(), account); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "account": account})
}

func (s *Server) handleAdminToggleAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	account, err := s.services.Account.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if account == nil {
		return respondError(c, &domain.NotFoundError{Resource: "account", ID: id})
	}

	account.IsActive = !account.IsActive
	if err := s.services.Account.Update(c.Context(), account); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "is_active": account.IsActive})
}

func (s *Server) handleAdminRotateAPIKey(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	key, err := s.services.Account.RotateAPIKey(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "api_key": key})
}

func (s *Server) handleAdminDeleteAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.services.Account.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleAdminGetUsers(c *fiber.Ctx) error {
	var users []*domain.User
	var err error
	if raw := c.Query("account_id"); raw != "" {
		accountID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid account_id"})
		}
		users, err = s.services.User.GetByAccountID(c.Context(), accountID)
	} else {
		users, err = s.services.User.GetAll(c.Context())
	}
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

func (s *Server) handleAdminCreateUser(c *fiber.Ctx) error {
	var req struct {
		AccountID   uuid.UUID `json:"account_id"`
		Username    string    `json:"username"`
		Email       string    `json:"email"`
		Password    string    `json:"password"`
		DisplayName string    `json:"display_name"`
		Role        string    `json:"role"`
		IsAdmin     bool      `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	user := &domain.User{
		AccountID:   req.AccountID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsAdmin:     req.IsAdmin,
	}
	if err := s.services.User.Create(c.Context(), user, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "user": user})
}

func (s *Server) handleAdminUpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.services.Auth.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return respondError(c, &domain.NotFoundError{Resource: "user", ID: id})
	}

	var req struct {
		Username    *string `json:"username"`
		Email       *string `json:"email"`
		DisplayName *string `json:"display_name"`
		Role        *string `json:"role"`
		IsAdmin     *bool   `json:"is_admin"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.services.User.Update(c.Context(), user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

func (s *Server) handleAdminResetPassword(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := s.services.User.UpdatePassword(c.Context(), id, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.services.User.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
