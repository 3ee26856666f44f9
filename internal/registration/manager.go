package registration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/apperrors"
	usermodels "io.winapps.pushrelay/internal/models/user"
	"io.winapps.pushrelay/internal/push"
)

const recordCacheTTL = 24 * time.Hour

// Manager owns the mapping from logical user to device delivery token and
// guarantees at most one record per distinct token. Redis is a read-through
// cache on lookups; Postgres stays authoritative.
type Manager struct {
	store  Store
	redis  *redis.Client
	logger *zap.SugaredLogger
}

// NewManager creates a registration manager. redisClient may be nil, which
// disables caching.
func NewManager(store Store, redisClient *redis.Client, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		store:  store,
		redis:  redisClient,
		logger: logger,
	}
}

// Register maps a (name, token) pair to a stable user identity. Repeated
// registration with a known token returns the existing record unchanged;
// the name supplied on that call is discarded, not merged. The bool result
// reports whether this call created the record.
func (m *Manager) Register(ctx context.Context, name, token string) (usermodels.Record, bool, error) {
	if name == "" || token == "" {
		return usermodels.Record{}, false, apperrors.InvalidArgument("Name and token are required")
	}
	if !push.IsValidToken(token) {
		return usermodels.Record{}, false, apperrors.InvalidArgument("Invalid push token format")
	}

	rec := usermodels.Record{
		UserID:        uuid.New().String(),
		Name:          name,
		DeliveryToken: token,
		CreatedAt:     time.Now().UTC(),
	}

	saved, created, err := m.store.CreateIfAbsent(ctx, rec)
	if err != nil {
		return usermodels.Record{}, false, err
	}

	if created && m.logger != nil {
		m.logger.Infow("user registered", "user_id", saved.UserID)
	}
	m.cacheRecord(ctx, saved)

	return saved, created, nil
}

// Lookup resolves a userId to its record, Redis first. Identifiers are
// UUIDs; anything else can never match a record and must not reach the
// store, where binding a non-UUID against the uuid column would error.
func (m *Manager) Lookup(ctx context.Context, userID string) (usermodels.Record, error) {
	if userID == "" {
		return usermodels.Record{}, apperrors.InvalidArgument("userId is required")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return usermodels.Record{}, apperrors.NotFound("User not found")
	}

	if rec, ok := m.cachedRecord(ctx, userID); ok {
		return rec, nil
	}

	rec, err := m.store.GetByID(ctx, userID)
	if err != nil {
		return usermodels.Record{}, err
	}

	m.cacheRecord(ctx, rec)
	return rec, nil
}

// ListAll returns every record including raw delivery tokens. Diagnostics
// only; there is no auth layer in front of this.
func (m *Manager) ListAll(ctx context.Context) ([]usermodels.Record, error) {
	return m.store.List(ctx)
}

// Count returns the number of registered records.
func (m *Manager) Count(ctx context.Context) (int64, error) {
	return m.store.Count(ctx)
}

func (m *Manager) cacheRecord(ctx context.Context, rec usermodels.Record) {
	if m.redis == nil {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := m.redis.Set(ctx, recordCacheKey(rec.UserID), b, recordCacheTTL).Err(); err != nil && m.logger != nil {
		m.logger.Warnw("failed to cache user record", "user_id", rec.UserID, "error", err)
	}
}

func (m *Manager) cachedRecord(ctx context.Context, userID string) (usermodels.Record, bool) {
	if m.redis == nil {
		return usermodels.Record{}, false
	}
	val, err := m.redis.Get(ctx, recordCacheKey(userID)).Result()
	if err != nil {
		return usermodels.Record{}, false
	}
	var rec usermodels.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return usermodels.Record{}, false
	}
	return rec, true
}

func recordCacheKey(userID string) string {
	return fmt.Sprintf("user_record:%s", userID)
}
