package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assetdocs/accessd/internal/access/domain"
	httpapi "github.com/assetdocs/accessd/internal/access/http"
	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/internal/access/store/drivers/sqlite"
	"github.com/assetdocs/accessd/pkg/accesssdk"
	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/idx"
	"github.com/assetdocs/accessd/pkg/jwtx"
)

const (
	testIssuer         = "accessd-test"
	testInternalSecret = "internal-test-secret"
	testPassword       = "correct-horse-battery"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "access-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// newTestServer wires the full router against an in-memory database. Each
// test gets its own server so rate limiter state never bleeds across tests.
func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierEdDSA(signer.PublicKey(), testIssuer, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(signer, verifier, "test", testInternalSecret, st, logger)

	alerts := &service.AlertService{Store: st, Mailer: discardMailer{}}
	contributors := &service.ContributorService{Store: st}

	router.SessionService = &service.SessionService{
		Store:        st,
		Signer:       signer,
		Alerts:       alerts,
		Contributors: contributors,
		Issuer:       testIssuer,
	}
	router.InviteService = &service.InviteService{
		Store:      st,
		Mailer:     discardMailer{},
		AppBaseURL: "http://app.test",
	}
	router.ContributorService = contributors
	router.StepUpService = &service.StepUpService{Store: st, SMS: discardSMS{}}
	router.AlertService = alerts
	router.TwoFactorService = &service.TwoFactorService{Store: st, Alerts: alerts, Issuer: testIssuer}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

type discardMailer struct{}

func (discardMailer) Send(context.Context, string, string, string) error { return nil }

type discardSMS struct{}

func (discardSMS) Send(context.Context, string, string) error { return nil }

func createAccount(t *testing.T, st *sqlite.Store, email string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)

	user := domain.User{
		ID:                 idx.New().String(),
		Email:              email,
		FirstName:          "Avery",
		LastName:           "Owner",
		PasswordHash:       hash,
		EmailNotifications: true,
		SecurityAlerts:     true,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

// doJSON issues a request with an optional bearer token and decodes the
// response body into out (when out is non-nil). Returns the status code.
func doJSON(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, baseURL, email string) accesssdk.SessionResponse {
	t.Helper()

	var session accesssdk.SessionResponse
	status := doJSON(t, http.MethodPost, baseURL+"/v1/auth/login", "",
		accesssdk.LoginRequest{Email: email, Password: testPassword}, &session)
	require.Equal(t, http.StatusOK, status)
	return session
}

func TestLoginContract(t *testing.T) {
	srv, st := newTestServer(t)
	owner := createAccount(t, st, "owner@example.com")

	t.Run("valid credentials issue a bearer token", func(t *testing.T) {
		session := login(t, srv.URL, owner.Email)
		require.NotEmpty(t, session.Token)
		require.Equal(t, "Bearer", session.TokenType)
		require.Positive(t, session.ExpiresIn)
		require.Equal(t, owner.Email, session.User.Email)
	})

	t.Run("wrong password is a generic 401", func(t *testing.T) {
		var errResp accesssdk.ErrorResponse
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "",
			accesssdk.LoginRequest{Email: owner.Email, Password: "wrong-password-zz"}, &errResp)
		require.Equal(t, http.StatusUnauthorized, status)
		require.NotEmpty(t, errResp.Error)
	})

	t.Run("unknown email gets the same response shape", func(t *testing.T) {
		var errResp accesssdk.ErrorResponse
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "",
			accesssdk.LoginRequest{Email: "ghost@example.com", Password: "wrong-password-zz"}, &errResp)
		require.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestInviteContract(t *testing.T) {
	srv, st := newTestServer(t)
	owner := createAccount(t, st, "owner@example.com")
	token := login(t, srv.URL, owner.Email).Token

	inviteReq := accesssdk.InviteRequest{
		ContributorEmail: "collab@example.com",
		FirstName:        "Casey",
		LastName:         "Collab",
		Role:             "contributor",
	}

	t.Run("requires authentication", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/contributors/invite", "", inviteReq, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("invite succeeds for a new invitee", func(t *testing.T) {
		var resp accesssdk.InviteResponse
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/contributors/invite", token, inviteReq, &resp)
		require.Equal(t, http.StatusOK, status)
		require.True(t, resp.Success)
		require.False(t, resp.IsExistingUser)
	})

	t.Run("duplicate invite is a 409 with DUPLICATE code", func(t *testing.T) {
		var errResp accesssdk.ErrorResponse
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/contributors/invite", token, inviteReq, &errResp)
		require.Equal(t, http.StatusConflict, status)
		require.Equal(t, "DUPLICATE", errResp.Code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		bad := inviteReq
		bad.ContributorEmail = "other@example.com"
		bad.Role = "superuser"
		status := doJSON(t, http.MethodPost, srv.URL+"/v1/contributors/invite", token, bad, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("invited contributor shows up in the list with capabilities", func(t *testing.T) {
		var list accesssdk.ContributorListResponse
		status := doJSON(t, http.MethodGet, srv.URL+"/v1/contributors", token, nil, &list)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list.Contributors, 1)
		require.Equal(t, "pending", list.Contributors[0].Status)
		require.True(t, list.Contributors[0].Capabilities.CanEdit)
		require.False(t, list.Contributors[0].Capabilities.CanAccessEncryptedVault)
	})
}

func TestRevokeContract(t *testing.T) {
	srv, st := newTestServer(t)
	owner := createAccount(t, st, "owner@example.com")
	token := login(t, srv.URL, owner.Email).Token

	t.Run("unknown contributor is a 404", func(t *testing.T) {
		status := doJSON(t, http.MethodPost,
			srv.URL+"/v1/contributors/"+idx.New().String()+"/revoke", token, nil, nil)
		require.Equal(t, http.StatusNotFound, status)
	})
}

func TestStepUpVerifyContract(t *testing.T) {
	srv, st := newTestServer(t)
	owner := createAccount(t, st, "owner@example.com")
	token := login(t, srv.URL, owner.Email).Token

	// Verification failures never explain themselves: the only signal is
	// valid=false on a 200.
	var resp accesssdk.StepUpVerifyResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/stepup/verify", token,
		accesssdk.StepUpVerifyRequest{Phone: "5551230000", Code: "123456"}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.False(t, resp.Valid)
}

func TestInternalAlertsContract(t *testing.T) {
	srv, st := newTestServer(t)
	owner := createAccount(t, st, "owner@example.com")

	alertReq := accesssdk.AlertRequest{
		UserID:    owner.ID,
		Email:     owner.Email,
		AlertType: "new_login",
		Metadata:  map[string]string{"ip": "203.0.113.9"},
	}

	t.Run("rejected without the shared secret", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, srv.URL+"/internal/v1/alerts", "", alertReq, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("accepted with the shared secret", func(t *testing.T) {
		raw, err := json.Marshal(alertReq)
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodPost, srv.URL+"/internal/v1/alerts", bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(httpapi.InternalAuthHeader, testInternalSecret)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var alertResp accesssdk.AlertResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&alertResp))
		require.True(t, alertResp.Success)
		require.False(t, alertResp.Skipped)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var live accesssdk.HealthResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/livez", "", nil, &live))
	require.Equal(t, "ok", live.Status)

	var ready accesssdk.HealthResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/readyz", "", nil, &ready))
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
