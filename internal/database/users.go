package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"smarttrash-backend/internal/models"
)

// GetUserByEmail looks a user up for login
func GetUserByEmail(ctx context.Context, db *sqlx.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
