package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	session "github.com/ussdautopay/go-session"
)

func authedState(tier session.UserType) session.State {
	return session.Reduce(session.State{}, session.AuthSucceeded(testUser(tier), "tok"))
}

func TestEvaluateLoadingWhileUnresolved(t *testing.T) {
	policy := session.DefaultRedirectPolicy()

	d := session.Evaluate(session.State{}, session.UserTypeUser, policy)
	assert.Equal(t, session.OutcomeLoading, d.Outcome)

	pending := session.Reduce(session.State{}, session.AuthStarted())
	d = session.Evaluate(pending, session.UserTypeUser, policy)
	assert.Equal(t, session.OutcomeLoading, d.Outcome)
}

func TestZeroStateIsUndetermined(t *testing.T) {
	var st session.State
	assert.Equal(t, session.StatusUninitialized, st.Status,
		"a fresh State starts undetermined, never signed out")
	assert.False(t, st.Authenticated())
}

func TestEvaluateUnauthenticatedGoesToLogin(t *testing.T) {
	policy := session.DefaultRedirectPolicy()
	signedOut := session.Reduce(session.State{}, session.SignedOut())

	d := session.Evaluate(signedOut, session.UserTypeUser, policy)
	assert.Equal(t, session.OutcomeLoginRedirect, d.Outcome)
	assert.Equal(t, "/login", d.Target)
}

func TestEvaluateSessionOnlyRequirement(t *testing.T) {
	policy := session.DefaultRedirectPolicy()

	d := session.Evaluate(authedState(session.UserTypeUser), session.UserTypeGuest, policy)
	assert.Equal(t, session.OutcomeAllow, d.Outcome)

	d = session.Evaluate(authedState(session.UserTypeUser), "", policy)
	assert.Equal(t, session.OutcomeAllow, d.Outcome)
}

// Any tier at or above the requirement passes; anything below bounces to
// the page its own tier earns.
func TestEvaluateTierMatrix(t *testing.T) {
	policy := session.DefaultRedirectPolicy()
	tiers := session.AllUserTypes()

	for _, have := range tiers {
		for _, need := range tiers {
			d := session.Evaluate(authedState(have), need, policy)

			if have.AtLeast(need) {
				assert.Equal(t, session.OutcomeAllow, d.Outcome,
					"%s should pass a %s gate", have, need)
				continue
			}

			assert.Equal(t, session.OutcomeRedirect, d.Outcome,
				"%s should bounce off a %s gate", have, need)
			assert.NotEmpty(t, d.Target)
			assert.NotEqual(t, "/login", d.Target,
				"an authenticated user never lands on login")
		}
	}
}

func TestEvaluateRedirectTargetsByTier(t *testing.T) {
	policy := session.DefaultRedirectPolicy()

	d := session.Evaluate(authedState(session.UserTypeUser), session.UserTypeAdmin, policy)
	assert.Equal(t, "/subscription", d.Target)

	d = session.Evaluate(authedState(session.UserTypeSubscribed), session.UserTypeAdmin, policy)
	assert.Equal(t, "/profile", d.Target, "tiers without a mapped page use the fallback")
}

func TestEvaluateCustomPolicy(t *testing.T) {
	policy := session.RedirectPolicy{
		Login:    "/signin",
		Targets:  map[session.UserType]string{session.UserTypeUser: "/upgrade"},
		Fallback: "/home",
	}

	signedOut := session.Reduce(session.State{}, session.SignedOut())
	d := session.Evaluate(signedOut, session.UserTypeUser, policy)
	assert.Equal(t, "/signin", d.Target)

	d = session.Evaluate(authedState(session.UserTypeUser), session.UserTypeAdmin, policy)
	assert.Equal(t, "/upgrade", d.Target)

	d = session.Evaluate(authedState(session.UserTypeSubscribed), session.UserTypeAdmin, policy)
	assert.Equal(t, "/home", d.Target)
}
