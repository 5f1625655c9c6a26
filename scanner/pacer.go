package scanner

import (
	"time"

	"github.com/fred-dns/cdnskey-scanner/resolver"
)

// runPaced drives one phase: it submits n work items through the solver,
// spacing submissions so the assigned time is consumed evenly regardless of
// query latencies, and pumps the loop until every transaction is terminal.
//
// submit is called once per item index in order; handle once per finished
// request. Queries already in flight are never cancelled; once the deadline
// is crossed the remaining submissions collapse to immediate.
func runPaced(solver *resolver.Solver, n int, assigned time.Duration,
	submit func(index int), handle func(request resolver.Request),
) {
	if n == 0 {
		return
	}

	deadline := time.Now().Add(assigned)

	timer := time.NewTimer(0)
	defer timer.Stop()

	timerC := timer.C
	next := 0
	remaining := n

	for remaining > 0 || solver.Outstanding() > 0 {
		if fired := solver.Step(timerC); fired {
			if next < n {
				submit(next)
				next++
				remaining--
			}

			if remaining > 0 {
				timer.Reset(nextInterval(deadline, remaining))
			} else {
				// all work submitted: the loop now only drains events
				timerC = nil
			}

			continue
		}

		for _, request := range solver.PopFinished() {
			handle(request)
		}
	}
}

// nextInterval spreads the time left until the deadline evenly over the
// remaining submissions, at microsecond resolution
func nextInterval(deadline time.Time, remaining int) time.Duration {
	left := time.Until(deadline)
	if left <= 0 {
		return 0
	}

	return (left / time.Duration(remaining)).Truncate(time.Microsecond)
}
