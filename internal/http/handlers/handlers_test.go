package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/groupgate/internal/access"
	aclmem "github.com/dropDatabas3/groupgate/internal/access/memory"
	"github.com/dropDatabas3/groupgate/internal/http/handlers"
	"github.com/dropDatabas3/groupgate/internal/http/router"
	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/scope"
)

// fakeIdentity implementa identity.Verifier + identity.Directory en memoria.
type fakeIdentity struct {
	tokens map[string][]string
	groups map[string]string
}

func (f *fakeIdentity) Verify(_ context.Context, token string, _ bool) (*identity.Claims, error) {
	gs, ok := f.tokens[token]
	if !ok {
		return nil, errors.New("token inválido")
	}
	return &identity.Claims{ID: "jti-" + token, Groups: append([]string(nil), gs...)}, nil
}

func (f *fakeIdentity) GroupByName(_ context.Context, name string) (*identity.Group, error) {
	id, ok := f.groups[name]
	if !ok {
		return nil, identity.ErrGroupUnknown
	}
	return &identity.Group{ID: id, Name: name}, nil
}

func newTestRouter(t *testing.T, mode scope.AuthMode) http.Handler {
	t.Helper()
	idp := &fakeIdentity{
		tokens: map[string][]string{
			"tok-A": {"g1", "g2"},
			"tok-B": {"g3"},
		},
		groups: map[string]string{
			"acme": "11111111-1111-1111-1111-111111111111",
		},
	}
	store, err := aclmem.New(map[string]map[string][]string{
		"grp-docs": {"g1": {"read"}},
	})
	require.NoError(t, err)

	var verifier identity.Verifier
	if mode == scope.AuthEnabled {
		verifier = idp
	}
	return router.New(router.Deps{
		Scope:      scope.New(verifier, mode),
		Access:     access.New(verifier, store),
		Directory:  idp,
		Registerer: prometheus.NewRegistry(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestScopeReadExplicitTokens(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/read",
		map[string]any{"tokens": []string{"tok-A", "tok-B"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Groups []string `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"g1", "g2", "g3", "public"}, resp.Groups)
}

// Un token inválido en la lista nunca es 401: se saltea y el resto aporta.
func TestScopeReadDegradesSilently(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/read",
		map[string]any{"tokens": []string{"tok-ROTO", "tok-B"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Groups []string `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"g3", "public"}, resp.Groups)
}

// Sin tokens explícitos el middleware de captura alimenta el path ambiente.
func TestScopeReadAmbientAuthorization(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/read", map[string]any{},
		map[string]string{"Authorization": "Bearer tok-A"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Groups []string `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"g1", "g2", "public"}, resp.Groups)
}

func TestScopeReadAnonymous(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/read", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Groups []string `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"public"}, resp.Groups)
}

func TestScopeWriteFirstTokenWins(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/write",
		map[string]any{"tokens": []string{"tok-A", "tok-B"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Group *string `json:"group"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Group)
	require.Equal(t, "g1", *resp.Group)
}

// Caller anónimo con auth habilitada: group=null, status 200 igual.
func TestScopeWriteAnonymousIsNull(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/write", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Group *string `json:"group"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Group)
}

// Con el proceso en AuthDisabled la escritura anónima se atribuye a "public".
func TestScopeWriteAuthDisabled(t *testing.T) {
	h := newTestRouter(t, scope.AuthDisabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/write", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Group *string `json:"group"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Group)
	require.Equal(t, "public", *resp.Group)
}

func TestAccessCheckGranted(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/access/check",
		map[string]any{"token": "tok-A", "group_id": "grp-docs"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TokenID string   `json:"token_id"`
		Groups  []string `json:"groups"`
		Primary string   `json:"primary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "jti-tok-A", resp.TokenID)
	require.Equal(t, "g1", resp.Primary)
	require.Contains(t, resp.Groups, "public")
}

func TestAccessCheckStatusTaxonomy(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	cases := []struct {
		name string
		body map[string]any
		want int
		code string
	}{
		{
			name: "token inválido → 401",
			body: map[string]any{"token": "tok-ROTO", "group_id": "grp-docs"},
			want: http.StatusUnauthorized,
			code: "TOKEN_INVALID",
		},
		{
			name: "grupo desconocido → 404",
			body: map[string]any{"token": "tok-A", "group_id": "grp-nope"},
			want: http.StatusNotFound,
			code: "GROUP_NOT_FOUND",
		},
		{
			name: "no miembro → 403",
			body: map[string]any{"token": "tok-B", "group_id": "grp-docs"},
			want: http.StatusForbidden,
			code: "FORBIDDEN",
		},
		{
			name: "permiso faltante → 403",
			body: map[string]any{"token": "tok-A", "group_id": "grp-docs", "permission": "delete"},
			want: http.StatusForbidden,
			code: "FORBIDDEN",
		},
		{
			name: "nivel insuficiente → 403",
			body: map[string]any{"token": "tok-A", "group_id": "grp-docs", "level": "write"},
			want: http.StatusForbidden,
			code: "FORBIDDEN",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/v1/access/check", tc.body, nil)
			require.Equal(t, tc.want, rec.Code)

			var resp struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestAccessCheckBadRequest(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	// sin token ni group_id
	rec := doJSON(t, h, http.MethodPost, "/v1/access/check", map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// level y permission son excluyentes
	rec = doJSON(t, h, http.MethodPost, "/v1/access/check",
		map[string]any{"token": "tok-A", "group_id": "grp-docs", "level": "read", "permission": "read"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// nivel desconocido
	rec = doJSON(t, h, http.MethodPost, "/v1/access/check",
		map[string]any{"token": "tok-A", "group_id": "grp-docs", "level": "root"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGroupsResolvePartial(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/groups/resolve",
		map[string]any{"names": []string{"acme", "nadie"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"11111111-1111-1111-1111-111111111111"}, resp.IDs)
}

func TestGroupsResolveRejectsInvalidName(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/groups/resolve",
		map[string]any{"names": []string{";hack"}}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	h := newTestRouter(t, scope.AuthEnabled)

	rec := doJSON(t, h, http.MethodPost, "/v1/scope/read", map[string]any{}, nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyzDegraded(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("sin conexión") })

	rec := httptest.NewRecorder()
	handlers.Readyz(map[string]handlers.Pinger{"identity": ok, "acl": down}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "degraded", resp["status"])
	require.Equal(t, "ok", resp["identity"])
}

func TestReadyzNoDeps(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.Readyz(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
