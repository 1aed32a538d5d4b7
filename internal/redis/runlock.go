package redis

import (
	"context"
	"fmt"
	"time"
)

// analysis runs are serialized per user so a double-submit cannot
// interleave the delete/insert sequence in the persister.
const runLockTTL = 5 * time.Minute

func runLockKey(userID int64) string {
	return fmt.Sprintf("analysis:lock:%d", userID)
}

// AcquireRunLock claims the per-user analysis lock. Returns false when
// another run already holds it.
func (c *Client) AcquireRunLock(ctx context.Context, userID int64) (bool, error) {
	return c.SetNX(ctx, runLockKey(userID), time.Now().UTC().Format(time.RFC3339), runLockTTL)
}

// ReleaseRunLock frees the per-user analysis lock.
func (c *Client) ReleaseRunLock(ctx context.Context, userID int64) error {
	return c.Del(ctx, runLockKey(userID))
}
