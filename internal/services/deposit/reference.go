package deposit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/logger"

	"go.uber.org/zap"
)

// referenceGenerator builds DEP_<userId>_<epochSeconds>[_<n>] codes.
type referenceGenerator struct {
	seq ReferenceSequencer
}

// First returns the code for the first insert attempt. With a sequencer,
// the second and later requests by the same user in the same second get
// a _<n> suffix.
func (g referenceGenerator) First(ctx context.Context, userID uint, now time.Time) string {
	base := baseReference(userID, now)
	if g.seq == nil {
		return base
	}

	n, err := g.seq.NextSequence(ctx, userID, now.Unix())
	if err != nil {
		logger.Warn(ctx, "reference sequence unavailable", zap.Uint("user_id", userID), zap.Error(err))
		return base
	}
	if n > 1 {
		return fmt.Sprintf("%s_%d", base, n)
	}
	return base
}

// Retry returns a code for an attempt after a unique-constraint clash.
func (g referenceGenerator) Retry(userID uint, now time.Time) string {
	return fmt.Sprintf("%s_%04d", baseReference(userID, now), 1000+rand.Intn(9000))
}

func baseReference(userID uint, now time.Time) string {
	return fmt.Sprintf("DEP_%d_%d", userID, now.Unix())
}
