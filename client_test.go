package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/ussdautopay/go-session"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClientLoginSuccess(t *testing.T) {
	var gotPath, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fan@example.com", body["email"])
		assert.Equal(t, "hunter22", body["password"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"user":  map[string]any{"id": 7, "email": "fan@example.com", "user_type": "user"},
			"token": "tok-login",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL)

	result, err := client.Login(context.Background(), "fan@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/login", gotPath)
	assert.Empty(t, gotAuth, "login carries no credential")
	assert.Equal(t, "tok-login", result.Token)
	assert.Equal(t, int64(7), result.User.ID)
}

func TestClientLoginRejectedIsInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{
			"message": "Invalid email or password",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL)

	hookFired := false
	client.OnSessionInvalid(func() { hookFired = true })

	_, err := client.Login(context.Background(), "fan@example.com", "wrong")
	require.Error(t, err)

	assert.True(t, session.IsInvalidCredentials(err))
	assert.False(t, session.IsSessionInvalid(err),
		"a rejected login is not a dead session")
	assert.False(t, hookFired, "uncredentialed 401 never fires the teardown hook")
	assert.Equal(t, "Invalid email or password", session.ErrorMessage(err))
}

func TestClientCredentialedRequestAttachesBearer(t *testing.T) {
	var gotAuth, gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(t, w, http.StatusOK, map[string]any{
			"user": map[string]any{"id": 7, "user_type": "subscribed"},
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok-bound" }))

	user, err := client.Profile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-bound", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, session.UserTypeSubscribed, user.Type())
}

func TestClientCredentialed401FiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{
			"message": "Token expired",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok-stale" }))

	fired := 0
	client.OnSessionInvalid(func() { fired++ })

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, session.IsSessionInvalid(err))
	assert.Equal(t, 1, fired)

	// Any credentialed operation reports the same way.
	_, err = client.UpdateProfile(context.Background(), session.ProfileUpdate{})
	require.Error(t, err)
	assert.True(t, session.IsSessionInvalid(err))
	assert.Equal(t, 2, fired)

	assert.Nil(t, session.ErrSessionInvalid.Metadata,
		"rejections are fresh errors; the shared sentinel stays untouched")
}

func TestClientConcurrent401sStayIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{
			"message": "Token expired",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok-stale" }))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Profile(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.Error(t, err)
		assert.True(t, session.IsSessionInvalid(err))
	}
	assert.Nil(t, session.ErrSessionInvalid.Metadata)
}

func TestClientValidateSessionUsesOverrideCredential(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id": 9, "email": "a@b.co", "user_type": "admin",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok-bound" }))

	user, err := client.ValidateSession(context.Background(), "tok-override")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-override", gotAuth)
	assert.Equal(t, session.UserTypeAdmin, user.Type(), "bare user body decodes too")
}

func TestClientNetworkErrorIsNotSessionInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok" }))

	fired := false
	client.OnSessionInvalid(func() { fired = true })

	_, err := client.Profile(context.Background())
	require.Error(t, err)

	assert.True(t, session.IsNetworkError(err))
	assert.False(t, session.IsSessionInvalid(err))
	assert.False(t, fired, "transport trouble never tears the session down")
}

func TestClientRegisterValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{
			"message": "Email already registered",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL)

	_, err := client.Register(context.Background(), session.RegisterData{
		Email: "taken@example.com", Password: "passw0rd!!",
	})
	require.Error(t, err)

	assert.True(t, session.IsValidationError(err))
	assert.Equal(t, "Email already registered", session.ErrorMessage(err))
}

func TestClientChangePasswordRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/change-password", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "old", body["current_password"])
		assert.Equal(t, "new-secret", body["new_password"])

		writeJSON(t, w, http.StatusBadRequest, map[string]string{
			"message": "Current password is incorrect",
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok" }))

	err := client.ChangePassword(context.Background(), "old", "new-secret")
	require.Error(t, err)
	assert.True(t, session.IsPasswordRejected(err))
}

func TestClientScopedCarriesOwnCredential(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, map[string]any{"user": map[string]any{"id": 1}})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok-shared" }))

	fired := false
	client.OnSessionInvalid(func() { fired = true })

	_, err := client.Scoped("tok-scoped").Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-scoped", gotAuth)
	assert.False(t, fired)
}

func TestClientInfluencerList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/influencers", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "DJ Kali", "ussd_shortcode": "123", "status": "active"},
			{"id": 2, "name": "Mama Oliech", "ussd_shortcode": "124", "status": "suspended"},
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL)

	influencers, err := client.Influencers().List(context.Background())
	require.NoError(t, err)
	require.Len(t, influencers, 2)
	assert.Equal(t, "DJ Kali", influencers[0].Name)
	assert.Equal(t, "124", influencers[1].Shortcode)
}

func TestClientSubscriberCreateNormalizesPhone(t *testing.T) {
	var gotPhone string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPhone, _ = body["fan_phone"].(string)

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id": 31, "influencer_id": 1, "fan_phone": gotPhone, "is_active": true,
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok" }))

	sub, err := client.Subscribers().Create(context.Background(), session.SubscriptionInput{
		InfluencerID: 1,
		FanPhone:     "0712 345 678",
		Amount:       50,
		Frequency:    "weekly",
	})
	require.NoError(t, err)

	assert.Equal(t, "+254712345678", gotPhone, "national format goes out as E.164")
	assert.True(t, sub.IsActive)
}

func TestClientLookupUSSDAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)

		if r.URL.Query().Get("pin") != "4321" {
			writeJSON(t, w, http.StatusOK, []any{})
			return
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 5, "phone": "+254712345678", "role": "fan", "balance": 120.5},
		})
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL,
		session.WithCredentialSource(func() string { return "tok-admin" }))

	account, err := client.Admin().LookupUSSDAccount(context.Background(), "+254712345678", "4321")
	require.NoError(t, err)
	assert.Equal(t, int64(5), account.ID)
	assert.Equal(t, 120.5, account.Balance)

	_, err = client.Admin().LookupUSSDAccount(context.Background(), "+254712345678", "0000")
	require.Error(t, err)
	assert.True(t, session.IsInvalidCredentials(err), "empty match list means a bad pair")
}

func TestClientSubscriberCreateRejectsBadPhone(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := session.NewClient(srv.URL)

	_, err := client.Subscribers().Create(context.Background(), session.SubscriptionInput{
		InfluencerID: 1,
		FanPhone:     "not-a-phone",
		Amount:       50,
		Frequency:    "weekly",
	})
	require.Error(t, err)

	assert.True(t, session.IsValidationError(err))
	assert.False(t, called, "invalid input never reaches the backend")
	assert.Contains(t, session.ValidationFields(err), "phone")
}
