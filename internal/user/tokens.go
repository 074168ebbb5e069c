package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SlawCzech/dev-me-up/internal/apperrors"
)

const (
	// PurposeActivation scopes tokens proving control of the registration email.
	PurposeActivation = "activation"
	// PurposePasswordReset scopes tokens authorizing a password change.
	PurposePasswordReset = "password-reset"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies the opaque tokens embedded in activation
// and password-reset links.
type TokenService interface {
	Issue(ctx context.Context, purpose string, userID uint) (string, error)
	Verify(ctx context.Context, purpose string, userID uint, token string) (bool, error)
}

// RedisTokenService stores tokens as TTL keys. Tokens are not consumed on
// verification, so a still-valid activation link can be followed twice;
// expiry is entirely the TTL.
type RedisTokenService struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTokenService(rdb *redis.Client) *RedisTokenService {
	ttl := defaultTokenTTL
	if hours, err := strconv.Atoi(os.Getenv("TOKEN_TTL_HOURS")); err == nil && hours > 0 {
		ttl = time.Duration(hours) * time.Hour
	}
	return &RedisTokenService{rdb: rdb, ttl: ttl}
}

func tokenKey(purpose, token string) string {
	return fmt.Sprintf("authtoken:%s:%s", purpose, token)
}

func (s *RedisTokenService) Issue(ctx context.Context, purpose string, userID uint) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.NewAppError(500, "error generating token", err)
	}
	token := hex.EncodeToString(raw)

	value := strconv.FormatUint(uint64(userID), 10)
	if err := s.rdb.Set(ctx, tokenKey(purpose, token), value, s.ttl).Err(); err != nil {
		return "", apperrors.NewAppError(500, "error storing token", err)
	}
	return token, nil
}

func (s *RedisTokenService) Verify(ctx context.Context, purpose string, userID uint, token string) (bool, error) {
	val, err := s.rdb.Get(ctx, tokenKey(purpose, token)).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, apperrors.NewAppError(500, "error verifying token", err)
	}
	return val == strconv.FormatUint(uint64(userID), 10), nil
}

// EncodeUID renders a user id as the URL-safe string embedded in
// activation and reset links.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID reverses EncodeUID. Any malformed input is an error; callers
// fold it into the generic invalid-link response.
func DecodeUID(encoded string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
