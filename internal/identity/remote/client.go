// Package remote implementa identity.Verifier e identity.Directory contra un
// servicio de identidad HTTP.
//
// Dos modos de verificación:
//   - store-backed (requireStore=true): introspección remota; ve revocaciones.
//   - stateless (requireStore=false): validación local de firma EdDSA contra
//     el JWKS publicado por el servicio.
//
// El directorio de grupos se cachea (memory o redis) con TTL corto y las
// búsquedas concurrentes del mismo nombre se colapsan con singleflight.
// Cachear acá es asunto de ESTE cliente: el core de autorización re-verifica
// en cada llamada y no sabe de este cache.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/groupgate/internal/cache"
	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/util"
)

// Config configura el cliente.
type Config struct {
	// BaseURL del servicio de identidad, sin slash final.
	BaseURL string
	// Issuer esperado en los tokens (claim iss). Vacío = no chequear.
	Issuer string
	// Timeout por request HTTP. Default: 5s.
	Timeout time.Duration
	// DirectoryTTL es el TTL del cache de directorio. Default: 30s.
	DirectoryTTL time.Duration
	// JWKSTTL es el TTL del cache de JWKS. Default: 5m.
	JWKSTTL time.Duration
	// Cache para el directorio de grupos. nil = sin cache.
	Cache cache.Cache
}

// Client habla con el servicio de identidad. Implementa identity.Verifier e
// identity.Directory.
type Client struct {
	base    string
	issuer  string
	httpc   *http.Client
	dirTTL  time.Duration
	dcache  cache.Cache
	jwks    *jwksCache
	sf      singleflight.Group
}

// New construye el cliente.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dirTTL := cfg.DirectoryTTL
	if dirTTL <= 0 {
		dirTTL = 30 * time.Second
	}
	jwksTTL := cfg.JWKSTTL
	if jwksTTL <= 0 {
		jwksTTL = 5 * time.Minute
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	httpc := &http.Client{Timeout: timeout}
	return &Client{
		base:   base,
		issuer: cfg.Issuer,
		httpc:  httpc,
		dirTTL: dirTTL,
		dcache: cfg.Cache,
		jwks:   newJWKSCache(base+"/.well-known/jwks.json", httpc, jwksTTL),
	}
}

// =================================================================================
// VERIFICACIÓN
// =================================================================================

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	JTI    string   `json:"jti"`
	Groups []string `json:"groups"`
	Iat    int64    `json:"iat"`
	Exp    int64    `json:"exp"`
}

// ErrTokenInactive indica que la introspección reportó el token como inactivo
// (expirado, revocado o desconocido para el store).
var ErrTokenInactive = errors.New("identity remote: token inactivo")

// Verify implementa identity.Verifier.
func (c *Client) Verify(ctx context.Context, token string, requireStore bool) (*identity.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("identity remote: token vacío")
	}
	if requireStore {
		return c.introspect(ctx, token)
	}
	return c.verifyLocal(token)
}

// introspect hace la verificación store-backed contra el servicio.
func (c *Client) introspect(ctx context.Context, token string) (*identity.Claims, error) {
	body, err := json.Marshal(introspectRequest{Token: token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/v1/tokens/introspect", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity remote: introspect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("identity remote: introspect status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var ir introspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("identity remote: introspect decode: %w", err)
	}
	if !ir.Active {
		logger.From(ctx).Debug("introspección inactiva", logger.TokenFP(util.TokenFP(token)))
		return nil, ErrTokenInactive
	}

	cl := &identity.Claims{
		ID:     ir.JTI,
		Groups: ir.Groups,
	}
	if ir.Iat > 0 {
		cl.IssuedAt = time.Unix(ir.Iat, 0)
	}
	if ir.Exp > 0 {
		cl.ExpiresAt = time.Unix(ir.Exp, 0)
	}
	return cl, nil
}

// =================================================================================
// DIRECTORIO DE GRUPOS
// =================================================================================

type groupResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupByName implementa identity.Directory.
func (c *Client) GroupByName(ctx context.Context, name string) (*identity.Group, error) {
	key := "group:" + name
	if c.dcache != nil {
		if b, ok := c.dcache.Get(key); ok {
			var g groupResponse
			if json.Unmarshal(b, &g) == nil {
				return &identity.Group{ID: g.ID, Name: g.Name}, nil
			}
		}
	}

	// Colapsar lookups concurrentes del mismo nombre
	v, err, _ := c.sf.Do(key, func() (any, error) {
		return c.fetchGroup(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	g := v.(*identity.Group)

	if c.dcache != nil {
		if b, err := json.Marshal(groupResponse{ID: g.ID, Name: g.Name}); err == nil {
			c.dcache.Set(key, b, c.dirTTL)
		}
	}
	return g, nil
}

func (c *Client) fetchGroup(ctx context.Context, name string) (*identity.Group, error) {
	u := c.base + "/v1/groups/by-name?name=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity remote: group lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// sigue abajo
	case http.StatusNotFound:
		return nil, identity.ErrGroupUnknown
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("identity remote: group lookup status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var g groupResponse
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return nil, fmt.Errorf("identity remote: group decode: %w", err)
	}
	if g.ID == "" {
		return nil, identity.ErrGroupUnknown
	}
	return &identity.Group{ID: g.ID, Name: g.Name}, nil
}

// Ping verifica que el servicio responda; usado por readyz.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/readyz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("identity remote: readyz status %d", resp.StatusCode)
	}
	return nil
}
