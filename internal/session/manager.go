package session

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/okadio/microblog/internal/domain/entity"
)

func sessionKey(userID string) string  { return "user:session:" + userID }
func intendedKey(visitor string) string { return "session:intended:" + visitor }

// Manager keeps the authenticated session state in Redis. One session per
// user; the access/refresh JWTs carry the session id and are only honored
// while the hash with the same sid exists.
type Manager struct {
	rdb         *redis.Client
	sessionTTL  time.Duration
	rememberTTL time.Duration
	intendedTTL time.Duration
}

func NewManager(rdb *redis.Client, sessionTTL, rememberTTL, intendedTTL time.Duration) *Manager {
	return &Manager{rdb: rdb, sessionTTL: sessionTTL, rememberTTL: rememberTTL, intendedTTL: intendedTTL}
}

// TTLFor returns the session lifetime for the remember flag.
func (m *Manager) TTLFor(remember bool) time.Duration {
	if remember {
		return m.rememberTTL
	}
	return m.sessionTTL
}

// Start establishes a session for the user and returns the new session id.
func (m *Manager) Start(ctx context.Context, u *entity.User, remember bool) (string, error) {
	sid := uuid.NewString()
	key := sessionKey(u.ID)
	fields := map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"sid":        sid,
		"remember":   strconv.FormatBool(remember),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	pipe := m.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, m.TTLFor(remember))
	_, err := pipe.Exec(ctx)
	return sid, err
}

// Rotate swaps the session id in place, preserving the remember lifetime.
// The caller's sid must match the stored one; used on refresh so a captured
// refresh token stops working after the first rotation.
func (m *Manager) Rotate(ctx context.Context, userID, currentSID string) (string, bool, error) {
	key := sessionKey(userID)
	data, err := m.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return "", false, err
	}
	if len(data) == 0 {
		return "", false, ErrNoSession
	}
	if data["sid"] != currentSID {
		return "", false, ErrNoSession
	}
	remember := data["remember"] == "true"
	sid := uuid.NewString()
	pipe := m.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sid,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, m.TTLFor(remember))
	if _, err := pipe.Exec(ctx); err != nil {
		return "", false, err
	}
	return sid, remember, nil
}

// Get returns the session hash for the user, or ErrNoSession.
func (m *Manager) Get(ctx context.Context, userID string) (map[string]string, error) {
	data, err := m.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoSession
	}
	return data, nil
}

// Destroy tears the session down. Destroying an absent session is fine.
func (m *Manager) Destroy(ctx context.Context, userID string) error {
	return m.rdb.Del(ctx, sessionKey(userID)).Err()
}

// CaptureIntended remembers the path an anonymous visitor was denied, keyed
// by the visitor cookie.
func (m *Manager) CaptureIntended(ctx context.Context, visitorID, path string) error {
	if visitorID == "" || path == "" {
		return nil
	}
	return m.rdb.Set(ctx, intendedKey(visitorID), path, m.intendedTTL).Err()
}

// IntendedOrDefault returns the captured destination, consuming it, or def
// when nothing was captured. Reading clears the value so it is used exactly
// once.
func (m *Manager) IntendedOrDefault(ctx context.Context, visitorID, def string) string {
	if visitorID == "" {
		return def
	}
	path, err := m.rdb.GetDel(ctx, intendedKey(visitorID)).Result()
	if err != nil || path == "" {
		return def
	}
	return path
}
