package api

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/terraincognita07/habitdiary/internal/security"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}

	tokens, err := security.NewTokenAuthority(options.SecretKey, options.TokenIssuer)
	if err != nil {
		return nil, err
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := options.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	handler := &Handler{
		db:            database,
		location:      location,
		logger:        logger,
		metrics:       options.Metrics,
		tokens:        tokens,
		hasher:        security.NewKeyedHasher(options.SecretKey),
		calendarCache: options.Cache,
		clock:         options.Clock,
		publicLimiter: newAttemptLimiter(publicRequestRate, publicRequestBurst, limiterIdleTTL),
	}
	return handler.withDependencies(database), nil
}

// Tokens exposes the authority that verifies bearer credentials so the CLI
// can mint development tokens with the same secret.
func (handler *Handler) Tokens() *security.TokenAuthority {
	return handler.tokens
}
