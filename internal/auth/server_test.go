package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskroster/taskroster/internal/config"
	"github.com/taskroster/taskroster/internal/database/databasetest"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/permission"
	permissionimpl "github.com/taskroster/taskroster/internal/permission/repositoryimpl"
	userimpl "github.com/taskroster/taskroster/internal/user/repositoryimpl"
	"github.com/taskroster/taskroster/pkg/cerr"
)

var testAuthEnv = &config.AuthEnv{
	JWTSecret:       "0123456789abcdef0123456789abcdef",
	JWTIssuer:       "taskroster-test",
	AccessTokenTTL:  time.Hour,
	RefreshTokenTTL: 24 * time.Hour,
}

type harness struct {
	handler http.Handler
	server  *Server
	authn   *Authenticator
	perms   *permission.Service
	redis   *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := databasetest.Open(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := userimpl.NewGormRepository(db)
	permRepo := permissionimpl.NewGormRepository(db)
	require.NoError(t, permission.Seed(context.Background(), permRepo))
	perms := permission.NewService(permRepo, users)

	issuer := NewTokenIssuer(testAuthEnv)
	srv := NewServer(users, issuer, NewRedisRefreshStore(client))
	srv.hashCost = bcrypt.MinCost

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(cerr.NewConvertConnectErrorChiMiddleware())
		srv.Routes(r)
	})
	return &harness{
		handler: r,
		server:  srv,
		authn:   NewAuthenticator(issuer, users, perms),
		perms:   perms,
		redis:   mr,
	}
}

func (h *harness) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestSignupAndSignin(t *testing.T) {
	h := newHarness(t)

	code, body := h.post(t, "/api/users/signup", map[string]any{
		"email": "Alice@Example.com", "password": "s3cret-pass", "name": "Alice",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")

	code, body = h.post(t, "/api/users/signup", map[string]any{
		"email": "alice@example.com", "password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_exists", body["code"])

	code, body = h.post(t, "/api/users/signin", map[string]any{
		"email": "alice@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])
	assert.EqualValues(t, 3600, body["expires_in"])

	actor, err := h.authn.Authenticate(context.Background(), "Bearer "+body["access"].(string))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", actor.Email)
	assert.Empty(t, actor.Permissions)
}

func TestSignup_Validation(t *testing.T) {
	h := newHarness(t)

	code, body := h.post(t, "/api/users/signup", map[string]any{"email": "not-an-email", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_argument", body["code"])
	assert.ElementsMatch(t, []any{"email is invalid", "password must be between 8 and 72 characters"}, body["violations"])

	code, body = h.post(t, "/api/users/signup", map[string]any{"email": "a@b.co", "password": "longenough", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid request body", body["message"])
}

func TestSignin_Errors(t *testing.T) {
	h := newHarness(t)
	code, _ := h.post(t, "/api/users/signup", map[string]any{"email": "bob@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{name: "missing fields", body: map[string]any{"email": ""}, wantCode: http.StatusBadRequest},
		{name: "unknown email", body: map[string]any{"email": "nobody@example.com", "password": "x"}, wantCode: http.StatusNotFound},
		{name: "wrong password", body: map[string]any{"email": "bob@example.com", "password": "battery-staple"}, wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := h.post(t, "/api/users/signin", tt.body)
			assert.Equal(t, tt.wantCode, code, body)
		})
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	h := newHarness(t)
	_, _ = h.post(t, "/api/users/signup", map[string]any{"email": "carol@example.com", "password": "pa55word!"})
	code, body := h.post(t, "/api/users/signin", map[string]any{"email": "carol@example.com", "password": "pa55word!"})
	require.Equal(t, http.StatusOK, code, body)
	refresh := body["refresh"].(string)

	code, body = h.post(t, "/api/users/token/refresh", map[string]any{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEmpty(t, body["access"])
	assert.NotEqual(t, refresh, body["refresh"])

	code, body = h.post(t, "/api/users/token/refresh", map[string]any{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "refresh token was already used or has expired", body["message"])
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	h := newHarness(t)
	_, _ = h.post(t, "/api/users/signup", map[string]any{"email": "dave@example.com", "password": "pa55word!"})
	_, body := h.post(t, "/api/users/signin", map[string]any{"email": "dave@example.com", "password": "pa55word!"})

	code, _ := h.post(t, "/api/users/token/refresh", map[string]any{"refresh_token": body["access"]})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRefresh_Expired(t *testing.T) {
	h := newHarness(t)
	_, _ = h.post(t, "/api/users/signup", map[string]any{"email": "erin@example.com", "password": "pa55word!"})
	_, body := h.post(t, "/api/users/signin", map[string]any{"email": "erin@example.com", "password": "pa55word!"})

	h.redis.FastForward(25 * time.Hour)

	code, _ := h.post(t, "/api/users/token/refresh", map[string]any{"refresh_token": body["refresh"]})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthenticate_LoadsPermissions(t *testing.T) {
	h := newHarness(t)
	_, body := h.post(t, "/api/users/signup", map[string]any{"email": "frank@example.com", "password": "pa55word!"})
	userID := body["id"].(string)

	grant(t, h, userID, permission.FetchTask)

	_, body = h.post(t, "/api/users/signin", map[string]any{"email": "frank@example.com", "password": "pa55word!"})
	actor, err := h.authn.Authenticate(context.Background(), "Bearer "+body["access"].(string))
	require.NoError(t, err)
	assert.True(t, actor.Has(permission.FetchTask))
	assert.False(t, actor.Has(permission.CreateTask))
}

func TestAuthenticate_Rejects(t *testing.T) {
	h := newHarness(t)
	other := NewTokenIssuer(&config.AuthEnv{
		JWTSecret: "another-secret-another-secret!!", JWTIssuer: testAuthEnv.JWTIssuer,
		AccessTokenTTL: time.Hour, RefreshTokenTTL: time.Hour,
	})
	forged, err := other.Issue("01FORGED", "x@example.com")
	require.NoError(t, err)
	valid, err := h.server.issuer.Issue("01UNKNOWNUSER", "ghost@example.com")
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic abc",
		"garbage":       "Bearer not-a-jwt",
		"forged":        "Bearer " + forged.Access,
		"refresh token": "Bearer " + valid.Refresh,
		"unknown user":  "Bearer " + valid.Access,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.authn.Authenticate(context.Background(), header)
			assert.True(t, cerr.IsCode(err, cerr.Unauthenticated), "got %v", err)
		})
	}
}

func grant(t *testing.T, h *harness, userID, codename string) {
	t.Helper()
	root := identity.NewActor("01ROOT", "root@example.com", []string{permission.ManagePermissions})
	require.NoError(t, h.perms.GrantPermission(context.Background(), root, userID, codename))
}
