package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "campusevents/pkg/domain"
)

// CachedStore is a read-through cache for department rosters. Department
// fan-out hits the same handful of rosters for every invite, so caching
// them bounds load on the membership store during large invites. Individual
// member lookups are not cached.
//
// Cache errors degrade to the primary store; the cache is never a
// correctness dependency.
type CachedStore struct {
	primary Store
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
}

func NewCachedStore(primary Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{primary: primary, client: client, ttl: ttl, logger: logger}
}

func rosterKey(department string) string {
	return "membership:roster:" + department
}

func (s *CachedStore) FindByDepartment(ctx context.Context, department string) ([]Member, error) {
	key := rosterKey(department)

	cached, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var members []Member
		if unmarshalErr := json.Unmarshal(cached, &members); unmarshalErr == nil {
			return members, nil
		}
		// Corrupt entry: drop it and fall through.
		s.client.Del(ctx, key)
	} else if err != redis.Nil {
		s.logger.WarnContext(ctx, "roster cache read failed", "department", department, "error", err)
	}

	members, err := s.primary.FindByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(members); err == nil {
		if err := s.client.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "roster cache write failed", "department", department, "error", err)
		}
	}
	return members, nil
}

func (s *CachedStore) FindByID(ctx context.Context, userID id.UserID) (*Member, error) {
	return s.primary.FindByID(ctx, userID)
}

// Invalidate removes a cached roster, for callers that learn a department
// changed.
func (s *CachedStore) Invalidate(ctx context.Context, department string) error {
	if err := s.client.Del(ctx, rosterKey(department)).Err(); err != nil {
		return fmt.Errorf("invalidate roster cache: %w", err)
	}
	return nil
}
