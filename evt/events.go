package evt

import (
	"github.com/asaskevich/EventBus"
)

const (
	// ScanPhaseStarted fires when a scan phase begins. Parameters: phase name, number of queries, assigned time
	ScanPhaseStarted = "scan:phaseStarted"

	// ScanPhaseFinished fires when a scan phase has drained all its queries. Parameter: phase name
	ScanPhaseFinished = "scan:phaseFinished"

	// ScanQuerySubmitted fires for every submitted query. Parameter: phase name
	ScanQuerySubmitted = "scan:querySubmitted"
)

// nolint
var evtBus = EventBus.New()

func Bus() EventBus.Bus {
	return evtBus
}
