package grabber

import "fmt"

// Phase is the explicit state of one ingestion run. Phases are strictly
// sequential; no phase starts before the previous phase's commits landed.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseSyncChannels
	PhaseCrawlSegments
	PhaseBackfillDetails
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseSyncChannels:
		return "sync-channels"
	case PhaseCrawlSegments:
		return "crawl-segments"
	case PhaseBackfillDetails:
		return "backfill-details"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// transitions lists the allowed forward edges. Any phase may fail.
var transitions = map[Phase][]Phase{
	PhaseStart:           {PhaseSyncChannels},
	PhaseSyncChannels:    {PhaseCrawlSegments},
	PhaseCrawlSegments:   {PhaseBackfillDetails},
	PhaseBackfillDetails: {PhaseDone},
}

// advance moves the run to the next phase, guarding against out-of-order
// execution.
func (g *Grabber) advance(next Phase) error {
	if next == PhaseFailed {
		g.phase = PhaseFailed
		return nil
	}
	for _, allowed := range transitions[g.phase] {
		if next == allowed {
			g.phase = next
			return nil
		}
	}
	return fmt.Errorf("invalid phase transition %s -> %s", g.phase, next)
}

// Phase returns the current run phase.
func (g *Grabber) Phase() Phase {
	return g.phase
}
