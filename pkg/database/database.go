package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naperu/heraldo/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

func Connect(databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

var migrations = []string{
	// gen_random_bytes (api key generation) lives in pgcrypto, so the
	// extension goes in before anything that calls it.
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	// Accounts table (multi-tenant)
	`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255),
			plan VARCHAR(50) DEFAULT 'free',
			api_key VARCHAR(64),
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_api_key ON accounts(api_key) WHERE api_key IS NOT NULL`,

	// Users table
	`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			display_name VARCHAR(255),
			role VARCHAR(50) DEFAULT 'agent',
			is_admin BOOLEAN DEFAULT FALSE,
			is_super_admin BOOLEAN DEFAULT FALSE,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

	// Leads table
	`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			name VARCHAR(255),
			phone VARCHAR(50),
			email VARCHAR(255),
			status VARCHAR(50) DEFAULT 'new',
			origin VARCHAR(100),
			interest TEXT,
			visitor_id VARCHAR(255),
			company_name VARCHAR(255),
			company_tax_id VARCHAR(100),
			company_email VARCHAR(255),
			notes TEXT,
			tags TEXT[],
			custom_fields JSONB DEFAULT '{}',
			assigned_to UUID REFERENCES users(id) ON DELETE SET NULL,
			duplicate_status VARCHAR(50),
			deleted_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

	// Duplicate notifications table
	`CREATE TABLE IF NOT EXISTS duplicate_notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			lead_id UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
			duplicate_of_lead_id UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
			match_reason VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			reviewed_at TIMESTAMPTZ,
			reviewed_by UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

	// Merge history table (append-only audit trail)
	`CREATE TABLE IF NOT EXISTS merge_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			source_lead_id UUID NOT NULL,
			target_lead_id UUID NOT NULL,
			result_lead_id UUID NOT NULL,
			strategy VARCHAR(50) NOT NULL,
			merged_by UUID REFERENCES users(id) ON DELETE SET NULL,
			notification_id UUID REFERENCES duplicate_notifications(id) ON DELETE SET NULL,
			source_snapshot JSONB NOT NULL DEFAULT '{}',
			target_snapshot JSONB NOT NULL DEFAULT '{}',
			result_snapshot JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

	// Media files table
	`CREATE TABLE IF NOT EXISTS media_files (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			lead_id UUID REFERENCES leads(id) ON DELETE SET NULL,
			url TEXT NOT NULL,
			file_name VARCHAR(255),
			content_type VARCHAR(100),
			size BIGINT DEFAULT 0,
			uploaded_by UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

	// Indexes for performance
	`CREATE INDEX IF NOT EXISTS idx_users_account ON users(account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_account ON leads(account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_account_phone ON leads(account_id, phone) WHERE deleted_at IS NULL AND phone IS NOT NULL AND phone != ''`,
	`CREATE INDEX IF NOT EXISTS idx_leads_account_email ON leads(account_id, email) WHERE deleted_at IS NULL AND email IS NOT NULL AND email != ''`,
	`CREATE INDEX IF NOT EXISTS idx_leads_visitor ON leads(account_id, visitor_id) WHERE visitor_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_account_status ON duplicate_notifications(account_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_lead ON duplicate_notifications(lead_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_incumbent ON duplicate_notifications(duplicate_of_lead_id)`,
	`CREATE INDEX IF NOT EXISTS idx_merge_history_account ON merge_history(account_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_merge_history_result ON merge_history(result_lead_id)`,
	`CREATE INDEX IF NOT EXISTS idx_merge_history_notification ON merge_history(notification_id) WHERE notification_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_media_files_account ON media_files(account_id)`,
}

func Migrate(db *pgxpool.Pool) error {
	ctx := context.Background()

	for _, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}

func SeedAdmin(db *pgxpool.Pool, cfg *config.Config) error {
	ctx := context.Background()

	// Check if admin exists
	var count int
	err := db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE username = $1", cfg.AdminUser).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}

	if count > 0 {
		return nil // Admin already exists
	}

	// Create default account
	var accountID string
	err = db.QueryRow(ctx, `
		INSERT INTO accounts (name, slug, plan, api_key)
		VALUES ('Default Account', 'default', 'enterprise', encode(gen_random_bytes(24), 'hex'))
		ON CONFLICT DO NOTHING
		RETURNING id
	`).Scan(&accountID)
	if err != nil {
		// Try to get existing account
		err = db.QueryRow(ctx, "SELECT id FROM accounts WHERE name = 'Default Account'").Scan(&accountID)
		if err != nil {
			return fmt.Errorf("failed to create/get default account: %w", err)
		}
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Create or update admin user (super_admin)
	_, err = db.Exec(ctx, `
		INSERT INTO users (account_id, username, email, password_hash, display_name, is_admin, is_super_admin, role)
		VALUES ($1, $2, $3, $4, 'Administrador', TRUE, TRUE, 'super_admin')
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, account_id = EXCLUDED.account_id, is_super_admin = TRUE, role = 'super_admin'
	`, accountID, cfg.AdminUser, cfg.AdminEmail, string(hashedPassword))
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
