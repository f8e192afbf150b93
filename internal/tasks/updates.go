package tasks

// Phase identifies a stage of a sync run for progress reporting.
type Phase string

const (
	PhasePreflight Phase = "preflight"
	PhaseHarvest   Phase = "harvest"
	PhaseNormalize Phase = "normalize"
	PhaseMatch     Phase = "match"
	PhaseReconcile Phase = "reconcile"
	PhaseLedger    Phase = "ledger"
	PhaseHistory   Phase = "history"
	PhaseDone      Phase = "done"
)

// ProgressUpdate reports run progress to an optional observer channel.
type ProgressUpdate struct {
	Phase     Phase
	Message   string
	Processed int
	Total     int
}

// notify sends without blocking; a slow or absent observer never stalls
// the run.
func notify(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
