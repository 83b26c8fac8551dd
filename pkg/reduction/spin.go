package reduction

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// spinBudget is the number of hot polls between cold checks of the context,
// the deadline and a scheduler yield.
const spinBudget = 256

// spinUntil busy-waits until ready reports true. A zero deadline means no
// deadline; the context is honoured either way.
func spinUntil(ctx context.Context, deadline time.Time, ready func() bool) error {
	miss := 0
	for !ready() {
		if miss++; miss < spinBudget {
			continue
		}
		miss = 0

		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("%w: deadline %s passed", ErrTimedOut, deadline.Format(time.RFC3339Nano))
		}
		runtime.Gosched()
	}
	return nil
}
