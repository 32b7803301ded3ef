// Package saga runs a short ordered sequence of single-document writes with
// best-effort compensations. There is no cross-document transaction in the
// storage layer; this is the explicit replacement for it.
package saga

import (
	"log/slog"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
)

// Step is one write plus the action that undoes it. Compensate may be nil
// when the step needs no undo (e.g. pure validation).
type Step struct {
	Name       string
	Run        func() error
	Compensate func() error
}

// Run executes steps in order. On failure it compensates the already-applied
// steps in reverse. If every compensation succeeds the original error is
// returned and state is fully rolled back. If a compensation fails the
// committed writes stand: the divergence is logged at Error with a
// partial_failure marker for operator reconciliation, and a PartialFailure
// error is returned so callers can report the primary outcome.
func Run(op string, steps []Step) error {
	for i, st := range steps {
		err := st.Run()
		if err == nil {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if steps[j].Compensate == nil {
				continue
			}
			if cerr := steps[j].Compensate(); cerr != nil {
				slog.Error("saga compensation failed, state divergent",
					"op", op,
					"failed_step", st.Name,
					"compensation_step", steps[j].Name,
					"cause", err,
					"compensation_error", cerr,
					"partial_failure", true,
				)
				return apperr.Wrap(apperr.PartialFailure, "écriture partielle détectée", err)
			}
		}
		return err
	}
	return nil
}
