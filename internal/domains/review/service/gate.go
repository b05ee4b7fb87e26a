package service

// EngagementState tracks how far a listener has engaged with a clip.
// The only path to rating runs through commenting:
//
//	NoComment -> Commented -> Reviewed
//
// Resubmitting a review keeps the state at Reviewed.
type EngagementState int

const (
	StateNoComment EngagementState = iota
	StateCommented
	StateReviewed
)

func (s EngagementState) String() string {
	switch s {
	case StateNoComment:
		return "no_comment"
	case StateCommented:
		return "commented"
	case StateReviewed:
		return "reviewed"
	default:
		return "unknown"
	}
}

// DeriveEngagementState computes a listener's state for one clip from
// what they have posted on it. A review without a comment cannot occur
// through the API; if the data says otherwise the state still counts
// as Reviewed so the listener can amend their review.
func DeriveEngagementState(hasCommented, hasReviewed bool) EngagementState {
	if hasReviewed {
		return StateReviewed
	}
	if hasCommented {
		return StateCommented
	}
	return StateNoComment
}

// GateSatisfied reports whether the state permits submitting ratings.
func GateSatisfied(state EngagementState) bool {
	return state != StateNoComment
}
