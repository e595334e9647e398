package model

import "time"

// User represents a row of the `users` table.  Domain entities reference
// users by UUID, never by the numeric primary key.
type User struct {
	ID           uint64    // users.id
	UUID         string    // users.uuid
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role ("admin" | "user")
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and carries expiry and revocation metadata.  Only
// the SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserUUID  string     // refresh_tokens.user_uuid
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
