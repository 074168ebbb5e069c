package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SlawCzech/dev-me-up/internal/user"
)

func newTestPresenceHandler(t *testing.T, repo *user.MockUserRepository) (*PresenceHandler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := user.NewAccountService(repo, &user.MockTokenService{}, &user.MockMailer{}, "http://localhost:8080")
	return NewPresenceHandler(svc, rdb), mr
}

func TestPresenceConnectDisconnect(t *testing.T) {
	repo := &user.MockUserRepository{}
	handler, mr := newTestPresenceHandler(t, repo)
	ctx := context.Background()

	profile := &user.UserProfile{UserID: 7}
	repo.On("FirstProfile", mock.Anything, uint(7)).Return(profile, nil)
	repo.On("SaveProfile", mock.Anything, profile).Return(nil)

	assert.NoError(t, handler.connect(ctx, 7))
	assert.True(t, profile.IsOnline)

	count, err := mr.Get(presenceKey(7))
	assert.NoError(t, err)
	assert.Equal(t, "1", count)

	handler.disconnect(ctx, 7)
	assert.False(t, profile.IsOnline)
	assert.False(t, mr.Exists(presenceKey(7)))
}

func TestPresenceSecondTabKeepsUserOnline(t *testing.T) {
	repo := &user.MockUserRepository{}
	handler, mr := newTestPresenceHandler(t, repo)
	ctx := context.Background()

	profile := &user.UserProfile{UserID: 7}
	repo.On("FirstProfile", mock.Anything, uint(7)).Return(profile, nil)
	repo.On("SaveProfile", mock.Anything, profile).Return(nil)

	assert.NoError(t, handler.connect(ctx, 7))
	assert.NoError(t, handler.connect(ctx, 7))

	handler.disconnect(ctx, 7)
	assert.True(t, profile.IsOnline)
	assert.True(t, mr.Exists(presenceKey(7)))

	handler.disconnect(ctx, 7)
	assert.False(t, profile.IsOnline)
	assert.False(t, mr.Exists(presenceKey(7)))
}

func TestPresenceFailedConnectDoesNotLeakCounter(t *testing.T) {
	repo := &user.MockUserRepository{}
	handler, mr := newTestPresenceHandler(t, repo)
	ctx := context.Background()

	profile := &user.UserProfile{UserID: 7}
	repo.On("FirstProfile", mock.Anything, uint(7)).Return(nil, errors.New("db down")).Once()
	repo.On("FirstProfile", mock.Anything, uint(7)).Return(profile, nil)
	repo.On("SaveProfile", mock.Anything, profile).Return(nil)

	assert.Error(t, handler.connect(ctx, 7))
	assert.False(t, mr.Exists(presenceKey(7)))

	// A later healthy session must still drain to offline.
	assert.NoError(t, handler.connect(ctx, 7))
	assert.True(t, profile.IsOnline)

	handler.disconnect(ctx, 7)
	assert.False(t, profile.IsOnline, "user should be offline after last session closes")
	assert.False(t, mr.Exists(presenceKey(7)))
}
