package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired means another caller already holds scopeHash's
// lock — the caller must treat this as C4's "concurrent request for
// the same scope" branch, not retry blindly.
var ErrLockNotAcquired = errors.New("scope lock not acquired")

// unlockScript only deletes the key if it still holds the token this
// caller set, so a lock that outlived its TTL and was re-acquired by
// someone else is never released out from under them.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// ScopeLock serializes access to one posting scope (spec §4.4 step
// 2) via SETNX with a TTL, so a crashed holder never wedges the scope
// forever.
type ScopeLock struct {
	Client *goredis.Client
	TTL    time.Duration
}

func NewScopeLock(client *goredis.Client, ttl time.Duration) *ScopeLock {
	return &ScopeLock{Client: client, TTL: ttl}
}

func lockKey(scopeHash string) string {
	return "ledgercore:lock:" + scopeHash
}

// Acquire claims scopeHash's lock and returns the token needed to
// release it, or ErrLockNotAcquired if another caller already holds
// it. The token (not the scope hash) is what Release checks, so a
// lock that outlived its TTL and was re-acquired by someone else is
// never released out from under them.
func (l *ScopeLock) Acquire(ctx context.Context, scopeHash string) (string, error) {
	token := uuid.NewString()

	ok, err := l.Client.SetNX(ctx, lockKey(scopeHash), token, l.TTL).Result()
	if err != nil {
		return "", err
	}

	if !ok {
		return "", ErrLockNotAcquired
	}

	return token, nil
}

// Release frees scopeHash's lock if token still owns it.
func (l *ScopeLock) Release(ctx context.Context, scopeHash, token string) error {
	if token == "" {
		return nil
	}

	return l.Client.Eval(ctx, unlockScript, []string{lockKey(scopeHash)}, token).Err()
}
