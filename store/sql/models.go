package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type tokenRecord struct {
	bun.BaseModel `bun:"table:integra_tokens,alias:it"`

	ID          string    `bun:"id,pk"`
	Environment string    `bun:"environment,notnull"`
	ConsumerKey string    `bun:"consumer_key,notnull"`
	AccessToken string    `bun:"access_token,notnull"`
	JWTToken    string    `bun:"jwt_token,notnull"`
	JWTPucomex  string    `bun:"jwt_pucomex"`
	TokenType   string    `bun:"token_type,notnull"`
	Scope       string    `bun:"scope,notnull"`
	ExpiresIn   int64     `bun:"expires_in,notnull"`
	ObtainedAt  time.Time `bun:"obtained_at,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type savedConfigRecord struct {
	bun.BaseModel `bun:"table:integra_saved_configs,alias:isc"`

	ID                  string    `bun:"id,pk"`
	Environment         string    `bun:"environment,notnull"`
	ConsumerKey         string    `bun:"consumer_key,notnull"`
	ConsumerSecret      string    `bun:"consumer_secret,notnull"`
	CertificatePath     string    `bun:"certificate_path,notnull"`
	CertificatePassword string    `bun:"certificate_password,notnull"`
	SavedAt             time.Time `bun:"saved_at,notnull"`
	CreatedAt           time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt           time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
