package scope

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/reqctx"
	"github.com/dropDatabas3/groupgate/internal/util"
)

// =================================================================================
// RESOLUCIÓN DUAL-PATH
// =================================================================================
//
// Dos topologías alimentan esta capa:
//   (a) un intermediario que no reenvía headers pasa cero o más tokens crudos
//       como lista explícita;
//   (b) un caller directo cuyo Authorization sobrevive y queda disponible en
//       el contexto del request (capturado por middleware, ver reqctx).
//
// Lectura y escritura divergen a propósito: la lectura es aditiva entre
// identidades (unión de lo que otorga cada token válido), la escritura se
// atribuye a EXACTAMENTE una identidad (gana el primer token verificable,
// en orden de lista). No unificar.

// ResolvePermittedGroups resuelve el scope de lectura. NUNCA retorna error:
// tokens inválidos se saltean en silencio y cualquier falla del path ambiente
// degrada a {"public"}. El resultado siempre contiene "public".
//
// Con lista explícita, las verificaciones corren en paralelo: el resultado es
// una unión, el orden de término no importa.
func (s *Service) ResolvePermittedGroups(ctx context.Context, tokens []string) []string {
	set := map[string]struct{}{identity.PublicGroup: {}}

	if len(tokens) > 0 {
		for _, cl := range s.verifyAll(ctx, tokens) {
			if cl == nil {
				continue
			}
			for _, g := range cl.Groups {
				set[g] = struct{}{}
			}
		}
	} else if cl := s.verifyAmbient(ctx); cl != nil {
		for _, g := range cl.Groups {
			set[g] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ResolveWriteGroup resuelve la identidad de escritura. NUNCA retorna error.
//
// Con lista explícita, prueba los tokens EN ORDEN y retorna el grupo primario
// del primero que verifica y trae grupos; los demás no se consultan. Sin
// lista, cae al path ambiente (mismo single-token que la lectura).
//
// Caso especial: si nada resuelve y el proceso corre con la autenticación
// deshabilitada (AuthDisabled), retorna "public" — una concesión explícita de
// escritura anónima que aplica a todo el proceso, nunca por llamada.
func (s *Service) ResolveWriteGroup(ctx context.Context, tokens []string) (string, bool) {
	if len(tokens) > 0 {
		for _, raw := range tokens {
			cl := s.verifyOne(ctx, stripBearer(raw))
			if cl == nil || len(cl.Groups) == 0 {
				continue
			}
			return cl.Groups[0], true
		}
	} else if cl := s.verifyAmbient(ctx); cl != nil && len(cl.Groups) > 0 {
		return cl.Groups[0], true
	}

	if !s.Enabled() {
		return identity.PublicGroup, true
	}
	return "", false
}

// verifyAll verifica una lista explícita de tokens en paralelo, preservando
// el índice original (nil en las posiciones que fallaron).
func (s *Service) verifyAll(ctx context.Context, tokens []string) []*identity.Claims {
	out := make([]*identity.Claims, len(tokens))
	if s.verifier == nil {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range tokens {
		i, raw := i, raw
		g.Go(func() error {
			out[i] = s.verifyOne(gctx, stripBearer(raw))
			return nil // las fallas individuales no son fatales
		})
	}
	_ = g.Wait()
	return out
}

// verifyOne verifica un token store-backed. Retorna nil en cualquier falla.
func (s *Service) verifyOne(ctx context.Context, token string) *identity.Claims {
	if s.verifier == nil || token == "" {
		return nil
	}
	cl, err := s.verifier.Verify(ctx, token, true)
	if err != nil {
		logger.From(ctx).Debug("token salteado en resolución",
			logger.TokenFP(util.TokenFP(token)), logger.Err(err))
		return nil
	}
	return cl
}

// verifyAmbient resuelve el token del header Authorization capturado en el
// contexto. Retorna nil si no hay header, no tiene prefijo Bearer, o la
// verificación falla: ninguna excepción escapa de este path.
func (s *Service) verifyAmbient(ctx context.Context) *identity.Claims {
	ah := strings.TrimSpace(reqctx.Authorization(ctx))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return nil
	}
	return s.verifyOne(ctx, strings.TrimSpace(ah[len("Bearer "):]))
}

// stripBearer quita el prefijo "Bearer " opcional de un token explícito.
func stripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len("Bearer ") && strings.EqualFold(raw[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(raw[len("Bearer "):])
	}
	return raw
}
