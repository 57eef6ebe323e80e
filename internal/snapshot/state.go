package snapshot

import "fmt"

// Phase is the lifecycle marker of a FetchState.
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// FetchState is what the view renders from. Snapshot is only meaningful
// when Phase is Ready.
type FetchState struct {
	Phase    Phase    `json:"state"`
	Snapshot Snapshot `json:"exchanges"`
}

func LoadingState() FetchState { return FetchState{Phase: Loading} }

func ReadyState(s Snapshot) FetchState { return FetchState{Phase: Ready, Snapshot: s} }

func FailedState() FetchState { return FetchState{Phase: Failed} }
