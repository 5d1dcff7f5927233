package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
)

type SessionRepositoryInterface interface {
	Save(ctx context.Context, p *authz.Principal, ttl time.Duration) error
	Find(ctx context.Context, sessionID string) (*authz.Principal, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionRepository хранит Principal в кеше под ключом console_session:<id>.
// idle > 0 - скользящий TTL: каждое успешное чтение продлевает запись,
// а сессия без запросов дольше idle истекает раньше токена.
type SessionRepository struct {
	cache  CacheRepositoryInterface
	idle   time.Duration
	logger *zap.Logger
}

func NewSessionRepository(cache CacheRepositoryInterface, idle time.Duration, logger *zap.Logger) SessionRepositoryInterface {
	return &SessionRepository{cache: cache, idle: idle, logger: logger}
}

func sessionKey(id string) string {
	return fmt.Sprintf(constants.CacheKeySession, id)
}

func (r *SessionRepository) Save(ctx context.Context, p *authz.Principal, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}
	if r.idle > 0 {
		ttl = min(ttl, r.idle)
	}
	if err := r.cache.Set(ctx, sessionKey(p.SessionID), raw, ttl); err != nil {
		return fmt.Errorf("запись сессии: %w", err)
	}
	return nil
}

// Find возвращает apperrors.ErrSessionNotFound, если сессия истекла или удалена.
func (r *SessionRepository) Find(ctx context.Context, sessionID string) (*authz.Principal, error) {
	raw, err := r.cache.Get(ctx, sessionKey(sessionID))
	if errors.Is(err, ErrCacheMiss) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение сессии: %w", err)
	}

	var p authz.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		r.logger.Warn("Повреждённая сессия, удаляем", zap.String("sessionID", sessionID), zap.Error(err))
		_ = r.cache.Del(ctx, sessionKey(sessionID))
		return nil, apperrors.ErrSessionNotFound
	}
	r.touch(ctx, sessionID)
	return &p, nil
}

// touch продлевает сессию на idle. Ошибка не мешает текущему запросу.
func (r *SessionRepository) touch(ctx context.Context, sessionID string) {
	if r.idle <= 0 {
		return
	}
	ok, err := r.cache.Expire(ctx, sessionKey(sessionID), r.idle)
	if err != nil || !ok {
		r.logger.Warn("Не удалось продлить сессию", zap.String("sessionID", sessionID), zap.Bool("exists", ok), zap.Error(err))
	}
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.cache.Del(ctx, sessionKey(sessionID))
}
