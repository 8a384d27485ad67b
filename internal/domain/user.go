package domain

import (
	"time"

	"github.com/google/uuid"
)

// User covers both identity classes. Anonymous users carry no
// credentials; registered users always do.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	IsAnonymous   bool      `json:"is_anonymous" gorm:"not null;default:true"`
	Email         *string   `json:"email,omitempty" gorm:"uniqueIndex"`
	PasswordHash  *string   `json:"-"`
	Name          *string   `json:"name,omitempty"`
	EmailVerified bool      `json:"email_verified" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	LastActive    time.Time `json:"last_active"`
}

// TokenRecord maps the SHA-256 hash of an issued session token to its
// owner. Raw tokens are never persisted. Tokens do not expire and there
// is no revocation list; issuing a new token leaves old ones valid.
type TokenRecord struct {
	TokenHash string    `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	IssuedAt  time.Time `json:"-"`
}
