package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table. Each token
// belongs to a user and is removed with it (FK ON DELETE CASCADE). The raw
// token string is never stored; only its SHA-256 hex digest.
//
// A token is usable iff RevokedAt is null and ExpiresAt is in the future.
// Rotation revokes the presented token and inserts its successor in the
// same transaction, so exactly one live token exists per session lineage.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the raw token value.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of issuance.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
