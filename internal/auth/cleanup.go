package auth

import (
	"context"
	"log"
	"time"

	"github.com/vtvstream/vtv/internal/database"
)

// PurgeExpiredTokens removes refresh tokens that can no longer be redeemed.
// Revoked rows are kept for a day so a replayed token still reads as revoked.
func PurgeExpiredTokens(ctx context.Context, db database.DBTX) {
	tag, err := db.Exec(ctx,
		`DELETE FROM refresh_tokens
		 WHERE expires_at < now() OR (revoked AND revoked_at < now() - interval '1 day')`)
	if err != nil {
		log.Printf("purge refresh tokens: %v", err)
		return
	}
	if tag.RowsAffected() > 0 {
		log.Printf("purged %d stale refresh tokens", tag.RowsAffected())
	}
}

func StartTokenPurgeLoop(ctx context.Context, db database.DBTX, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				PurgeExpiredTokens(ctx, db)
			}
		}
	}()
}
