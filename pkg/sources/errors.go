package sources

// TrimKind categorizes why a trim pass produced no body.
type TrimKind string

const (
	// KindLiveStream marks rolling live-coverage pages that never carry a
	// stable article body.
	KindLiveStream TrimKind = "LiveStream"
	// KindEmpty marks pages where none of the known content containers matched.
	KindEmpty TrimKind = "Empty"
	// KindOther marks any remaining trim failure.
	KindOther TrimKind = "Other"
)

// TrimError is the categorized extraction failure returned by Strategy.Trim.
// Callers branch on Kind rather than on error identity.
type TrimError struct {
	Kind   TrimKind
	Detail string
}

func (e *TrimError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// liveStreamErr fails a trim fast for live-coverage items.
func liveStreamErr(title string) *TrimError {
	return &TrimError{Kind: KindLiveStream, Detail: "live coverage page " + title}
}

// emptyErr fails a trim when no content container matched.
func emptyErr() *TrimError {
	return &TrimError{Kind: KindEmpty}
}

// otherErr wraps an unexpected trim failure.
func otherErr(detail string) *TrimError {
	return &TrimError{Kind: KindOther, Detail: detail}
}
