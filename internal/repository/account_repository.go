package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type ConnectedAccountRepository interface {
	Upsert(ctx context.Context, account *models.ConnectedAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ConnectedAccount, error)
	GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.ConnectedAccount, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error)
	CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type connectedAccountRepository struct {
	db *sql.DB
}

func NewConnectedAccountRepository(db *sql.DB) ConnectedAccountRepository {
	return &connectedAccountRepository{db: db}
}

const accountColumns = `id, user_id, platform, platform_user_id, access_token, refresh_token, token_expires_at, created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*models.ConnectedAccount, error) {
	var acc models.ConnectedAccount
	err := row.Scan(&acc.ID, &acc.UserID, &acc.Platform, &acc.PlatformUserID,
		&acc.AccessToken, &acc.RefreshToken, &acc.TokenExpiresAt, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Upsert replaces the stored credential on reconnection. One row per
// (user_id, platform).
func (r *connectedAccountRepository) Upsert(ctx context.Context, account *models.ConnectedAccount) (int64, error) {
	query := `
		INSERT INTO connected_accounts (user_id, platform, platform_user_id, access_token, refresh_token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, platform) DO UPDATE
		SET platform_user_id = EXCLUDED.platform_user_id,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			updated_at = now()
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		account.UserID,
		account.Platform,
		account.PlatformUserID,
		account.AccessToken,
		account.RefreshToken,
		account.TokenExpiresAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *connectedAccountRepository) GetByID(ctx context.Context, id int64) (*models.ConnectedAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM connected_accounts WHERE id = $1`
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return acc, nil
}

func (r *connectedAccountRepository) GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.ConnectedAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM connected_accounts WHERE user_id = $1 AND platform = $2`
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, userID, platform))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return acc, nil
}

func (r *connectedAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM connected_accounts WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.ConnectedAccount
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (r *connectedAccountRepository) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	query := `SELECT 1 FROM connected_accounts WHERE id = $1 AND user_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *connectedAccountRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM connected_accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
