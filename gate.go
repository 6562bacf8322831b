package session

// Outcome is what the authorization gate tells a view to do
type Outcome string

const (
	// OutcomeAllow renders the requested view
	OutcomeAllow Outcome = "allow"
	// OutcomeLoading suspends the decision while the session is undetermined
	OutcomeLoading Outcome = "loading"
	// OutcomeLoginRedirect sends the caller to the auth entry point,
	// remembering the requested location for the post-login redirect
	OutcomeLoginRedirect Outcome = "redirect-login"
	// OutcomeRedirect sends an authenticated but under-privileged caller
	// to the policy's target for their tier
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the gate's verdict for one navigation
type Decision struct {
	Outcome Outcome
	// Target is set for OutcomeLoginRedirect and OutcomeRedirect
	Target string
}

// RedirectPolicy decides where under-privileged callers land. The mapping
// is product policy, not structure, so it stays configuration.
type RedirectPolicy struct {
	// Login is the auth entry point for unauthenticated callers
	Login string
	// Targets maps the caller's own tier to its redirect destination
	Targets map[UserType]string
	// Fallback is used when Targets has no entry for the caller's tier
	Fallback string
}

// DefaultRedirectPolicy reproduces the product mapping: guests are sent to
// registration, plain users to the subscription upsell, everyone else to
// their profile.
func DefaultRedirectPolicy() RedirectPolicy {
	return RedirectPolicy{
		Login: "/login",
		Targets: map[UserType]string{
			UserTypeGuest: "/register",
			UserTypeUser:  "/subscription",
		},
		Fallback: "/profile",
	}
}

func (p RedirectPolicy) target(tier UserType) string {
	if t, ok := p.Targets[tier]; ok && t != "" {
		return t
	}
	return p.Fallback
}

// Evaluate is the authorization gate: a pure function of the session
// snapshot and the view's required tier. It must be re-run on every
// navigation and on every session change.
//
// A zero required tier (or guest) lets any authenticated caller through.
// While the session is undetermined the only valid answer is loading; the
// gate never compares privileges against a stale session.
func Evaluate(s State, required UserType, policy RedirectPolicy) Decision {
	switch s.Status {
	case StatusUninitialized, StatusPending:
		return Decision{Outcome: OutcomeLoading}
	}

	if !s.Authenticated() {
		return Decision{Outcome: OutcomeLoginRedirect, Target: policy.Login}
	}

	if required == "" || required == UserTypeGuest {
		return Decision{Outcome: OutcomeAllow}
	}

	tier := s.User.Type()
	if tier.AtLeast(required) {
		return Decision{Outcome: OutcomeAllow}
	}

	return Decision{Outcome: OutcomeRedirect, Target: policy.target(tier)}
}
