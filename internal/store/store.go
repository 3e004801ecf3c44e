// Package store provides focused, single-concern data access stores for the
// keyfleet control plane.
//
// Each store owns one entity (teams, users, keys, regions, products, limits,
// audit) and embeds shared helpers (Pool, crypto, logger) via the Base
// struct. Stores never import each other — cross-entity work (team merge)
// lives in a single transaction inside the owning store.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/crypto"
	"github.com/keyfleet/keyfleet/internal/dbpool"
	"github.com/keyfleet/keyfleet/internal/middleware"
	"github.com/keyfleet/keyfleet/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool   *dbpool.Pool
	Log    *logrus.Logger
	Crypto *crypto.Service
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// GetSessionByToken resolves a session token to its user. Expired sessions
// are treated as missing.
func (b *Base) GetSessionByToken(ctx context.Context, token string) (*middleware.Session, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])

	var sess middleware.Session
	var role string

	err := b.Pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > NOW() AND u.is_active`,
		tokenHash,
	).Scan(&sess.UserID, &sess.Email, &role)
	if err != nil {
		return nil, models.ErrUserNotFound
	}

	sess.Role = models.Role(role)

	return &sess, nil
}
