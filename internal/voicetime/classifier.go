package voicetime

import "github.com/foxseedlab/koebako/internal/repository"

type TransitionKind int

const (
	KindNoOp TransitionKind = iota
	KindJoin
	KindLeave
	KindMove
)

func (k TransitionKind) String() string {
	switch k {
	case KindJoin:
		return "join"
	case KindLeave:
		return "leave"
	case KindMove:
		return "move"
	default:
		return "noop"
	}
}

type Transition struct {
	Kind TransitionKind
	From *repository.Channel
	To   *repository.Channel
}

// a rename between before and after is not a move
func Classify(before, after *repository.Channel) Transition {
	switch {
	case before == nil && after != nil:
		return Transition{Kind: KindJoin, To: after}
	case before != nil && after == nil:
		return Transition{Kind: KindLeave, From: before}
	case before != nil && after != nil && before.ID != after.ID:
		return Transition{Kind: KindMove, From: before, To: after}
	default:
		return Transition{Kind: KindNoOp}
	}
}

func (t Transition) action() repository.Action {
	switch t.Kind {
	case KindJoin:
		return repository.ActionJoined
	case KindLeave:
		return repository.ActionLeft
	case KindMove:
		return repository.ActionMoved
	default:
		return ""
	}
}
