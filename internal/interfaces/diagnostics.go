package interfaces

import "context"

// Capturer records best-effort diagnostics for a failed operation.
// Implementations never return errors; failures are logged.
type Capturer interface {
	Capture(ctx context.Context, label string)
}
