package engine

// Phase is the lifecycle state of an Instance.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseRendering
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseRendering:
		return "rendering"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}
