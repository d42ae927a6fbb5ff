package gate

// State is the gate's view of authentication.
type State int

const (
	// StateRestoring: the stored session is still being read, or the
	// minimum splash duration has not elapsed.
	StateRestoring State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// DecisionKind tells the router what to show.
type DecisionKind int

const (
	// DecisionLoading: show a blocking loading indicator, nothing else.
	DecisionLoading DecisionKind = iota
	// DecisionRedirect: go to Decision.Route, the protected entry point,
	// whatever children the gate wraps.
	DecisionRedirect
	// DecisionRenderChildren: show the wrapped public flow.
	DecisionRenderChildren
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionLoading:
		return "loading"
	case DecisionRedirect:
		return "redirect"
	case DecisionRenderChildren:
		return "render-children"
	default:
		return "unknown"
	}
}

// Decision is what the gate wants rendered.
type Decision struct {
	Kind  DecisionKind
	Route string
}
