package scope

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/reqctx"
)

// staticVerifier mapea token → grupos. Registra el orden en que se verificó
// para los tests de precedencia de escritura.
type staticVerifier struct {
	mu     sync.Mutex
	groups map[string][]string
	calls  []string
}

func (v *staticVerifier) Verify(_ context.Context, token string, _ bool) (*identity.Claims, error) {
	v.mu.Lock()
	v.calls = append(v.calls, token)
	v.mu.Unlock()

	gs, ok := v.groups[token]
	if !ok {
		return nil, errors.New("token inválido")
	}
	return &identity.Claims{ID: "jti-" + token, Groups: append([]string(nil), gs...)}, nil
}

func newResolver(mode AuthMode) (*Service, *staticVerifier) {
	v := &staticVerifier{groups: map[string][]string{
		"tok-A": {"g1", "g2"},
		"tok-B": {"g3"},
		"tok-0": {},
	}}
	return New(v, mode), v
}

func TestResolvePermittedGroupsUnion(t *testing.T) {
	s, _ := newResolver(AuthEnabled)

	got := s.ResolvePermittedGroups(context.Background(), []string{"tok-A", "tok-B"})
	want := []string{"g1", "g2", "g3", "public"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolvePermittedGroups = %v, want %v", got, want)
	}
}

func TestResolvePermittedGroupsSkipsInvalid(t *testing.T) {
	s, _ := newResolver(AuthEnabled)

	// el token inválido se saltea, el resto aporta igual
	got := s.ResolvePermittedGroups(context.Background(), []string{"tok-ROTO", "tok-B"})
	want := []string{"g3", "public"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolvePermittedGroups = %v, want %v", got, want)
	}
}

func TestResolvePermittedGroupsAlwaysPublic(t *testing.T) {
	s, _ := newResolver(AuthEnabled)
	ctx := context.Background()

	cases := [][]string{
		nil,
		{},
		{"tok-ROTO"},
		{"tok-ROTO", "tok-PEOR"},
	}
	for _, tokens := range cases {
		got := s.ResolvePermittedGroups(ctx, tokens)
		if !reflect.DeepEqual(got, []string{"public"}) {
			t.Fatalf("tokens=%v: got %v, want [public]", tokens, got)
		}
	}

	// incluso sin verifier el default se sostiene
	bare := New(nil, AuthDisabled)
	if got := bare.ResolvePermittedGroups(ctx, []string{"tok-A"}); !reflect.DeepEqual(got, []string{"public"}) {
		t.Fatalf("sin verifier: got %v, want [public]", got)
	}
}

func TestResolvePermittedGroupsStripsBearer(t *testing.T) {
	s, _ := newResolver(AuthEnabled)

	got := s.ResolvePermittedGroups(context.Background(), []string{"Bearer tok-B", "bearer tok-A"})
	want := []string{"g1", "g2", "g3", "public"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolvePermittedGroups = %v, want %v", got, want)
	}
}

func TestResolvePermittedGroupsAmbient(t *testing.T) {
	s, _ := newResolver(AuthEnabled)
	ctx := reqctx.WithAuthorization(context.Background(), "Bearer tok-A")

	got := s.ResolvePermittedGroups(ctx, nil)
	want := []string{"g1", "g2", "public"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ambiente: got %v, want %v", got, want)
	}

	// sin prefijo Bearer el header se ignora
	ctx = reqctx.WithAuthorization(context.Background(), "Basic dXNlcg==")
	if got := s.ResolvePermittedGroups(ctx, nil); !reflect.DeepEqual(got, []string{"public"}) {
		t.Fatalf("Basic: got %v, want [public]", got)
	}
}

// La lista explícita tiene precedencia: con tokens presentes el header del
// contexto no se consulta.
func TestResolvePermittedGroupsExplicitWinsOverAmbient(t *testing.T) {
	s, _ := newResolver(AuthEnabled)
	ctx := reqctx.WithAuthorization(context.Background(), "Bearer tok-A")

	got := s.ResolvePermittedGroups(ctx, []string{"tok-B"})
	want := []string{"g3", "public"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveWriteGroupFirstWins(t *testing.T) {
	s, v := newResolver(AuthEnabled)

	// gana el primario del PRIMER token verificable, no la unión
	g, ok := s.ResolveWriteGroup(context.Background(), []string{"tok-A", "tok-B"})
	if !ok || g != "g1" {
		t.Fatalf("ResolveWriteGroup = (%q, %v), want (g1, true)", g, ok)
	}
	// el segundo token ni se consulta
	if len(v.calls) != 1 || v.calls[0] != "tok-A" {
		t.Fatalf("calls = %v, want [tok-A]", v.calls)
	}
}

func TestResolveWriteGroupSkipsInvalidInOrder(t *testing.T) {
	s, _ := newResolver(AuthEnabled)

	g, ok := s.ResolveWriteGroup(context.Background(), []string{"tok-ROTO", "tok-B"})
	if !ok || g != "g3" {
		t.Fatalf("ResolveWriteGroup = (%q, %v), want (g3, true)", g, ok)
	}
}

// Un token que verifica pero no trae grupos no gana: se sigue con el próximo.
func TestResolveWriteGroupSkipsGroupless(t *testing.T) {
	s, _ := newResolver(AuthEnabled)

	g, ok := s.ResolveWriteGroup(context.Background(), []string{"tok-0", "tok-B"})
	if !ok || g != "g3" {
		t.Fatalf("ResolveWriteGroup = (%q, %v), want (g3, true)", g, ok)
	}
}

// Con auth habilitada la escritura es estricta: nada resuelve → ok=false.
func TestResolveWriteGroupNoneAuthEnabled(t *testing.T) {
	s, _ := newResolver(AuthEnabled)
	ctx := context.Background()

	if g, ok := s.ResolveWriteGroup(ctx, nil); ok {
		t.Fatalf("sin tokens: got (%q, true), want ok=false", g)
	}
	if g, ok := s.ResolveWriteGroup(ctx, []string{"tok-ROTO"}); ok {
		t.Fatalf("todos inválidos: got (%q, true), want ok=false", g)
	}
}

// Con el proceso en AuthDisabled, la escritura anónima degrada a "public".
func TestResolveWriteGroupAuthDisabled(t *testing.T) {
	s := New(nil, AuthDisabled)

	g, ok := s.ResolveWriteGroup(context.Background(), nil)
	if !ok || g != identity.PublicGroup {
		t.Fatalf("ResolveWriteGroup = (%q, %v), want (public, true)", g, ok)
	}
}

func TestResolveWriteGroupAmbient(t *testing.T) {
	s, _ := newResolver(AuthEnabled)
	ctx := reqctx.WithAuthorization(context.Background(), "Bearer tok-B")

	g, ok := s.ResolveWriteGroup(ctx, nil)
	if !ok || g != "g3" {
		t.Fatalf("ambiente: got (%q, %v), want (g3, true)", g, ok)
	}
}

// Contraste de los dos paths sobre la MISMA lista: la lectura une, la
// escritura atribuye al primero.
func TestDualPathContrast(t *testing.T) {
	s, _ := newResolver(AuthEnabled)
	ctx := context.Background()
	tokens := []string{"tok-A", "tok-B"}

	read := s.ResolvePermittedGroups(ctx, tokens)
	if !reflect.DeepEqual(read, []string{"g1", "g2", "g3", "public"}) {
		t.Fatalf("lectura = %v", read)
	}
	write, ok := s.ResolveWriteGroup(ctx, tokens)
	if !ok || write != "g1" {
		t.Fatalf("escritura = (%q, %v)", write, ok)
	}
}

func TestStripBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":    "abc",
		"bearer abc":    "abc",
		"  Bearer abc ": "abc",
		"abc":           "abc",
		"Bearerabc":     "Bearerabc",
	}
	for in, want := range cases {
		if got := stripBearer(in); got != want {
			t.Fatalf("stripBearer(%q) = %q, want %q", in, got, want)
		}
	}
}
