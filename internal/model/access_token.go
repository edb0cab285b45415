package model

import "time"

// AccessToken is the persisted record of an issued bearer token. The ID is
// the token's jti; a token whose row is gone has been revoked.
type AccessToken struct {
	ID         string     `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	Name       string     `json:"name" gorm:"size:100;not null"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null;index"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Expired reports whether the token is past its expiry at now.
func (t *AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
