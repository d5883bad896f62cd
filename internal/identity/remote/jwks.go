package remote

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/groupgate/internal/identity"
)

// jwk es una clave del JWKS publicado. Solo soportamos OKP/Ed25519, que es
// lo que firma el servicio de identidad.
type jwk struct {
	KID string `json:"kid"`
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Use string `json:"use"`
	X   string `json:"x"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// jwksCache cachea las claves públicas del servicio por un TTL corto.
// El refresh es perezoso: se recarga en el primer uso después de expirar.
type jwksCache struct {
	url   string
	httpc *http.Client
	ttl   time.Duration

	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey // kid → pubkey
	exp  time.Time
}

func newJWKSCache(url string, httpc *http.Client, ttl time.Duration) *jwksCache {
	return &jwksCache{url: url, httpc: httpc, ttl: ttl}
}

// publicKey busca la pubkey por kid, recargando el JWKS si expiró.
func (j *jwksCache) publicKey(kid string) (ed25519.PublicKey, error) {
	j.mu.RLock()
	if time.Now().Before(j.exp) {
		if pk, ok := j.keys[kid]; ok {
			j.mu.RUnlock()
			return pk, nil
		}
	}
	j.mu.RUnlock()

	if err := j.refresh(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	pk, ok := j.keys[kid]
	if !ok {
		return nil, fmt.Errorf("identity remote: kid %q no está en el JWKS", kid)
	}
	return pk, nil
}

func (j *jwksCache) refresh() error {
	resp, err := j.httpc.Get(j.url)
	if err != nil {
		return fmt.Errorf("identity remote: jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity remote: jwks status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 256<<10))
	if err != nil {
		return err
	}
	var doc jwksDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("identity remote: jwks decode: %w", err)
	}

	keys := make(map[string]ed25519.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "OKP" || k.Crv != "Ed25519" || k.KID == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			continue
		}
		keys[k.KID] = ed25519.PublicKey(raw)
	}
	if len(keys) == 0 {
		return errors.New("identity remote: jwks sin claves Ed25519 usables")
	}

	j.mu.Lock()
	j.keys = keys
	j.exp = time.Now().Add(j.ttl)
	j.mu.Unlock()
	return nil
}

// verifyLocal valida firma EdDSA, iss y ventana de validez sin tocar el
// store. No ve revocaciones: para eso está la introspección.
func (c *Client) verifyLocal(token string) (*identity.Claims, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("kid_missing")
		}
		return c.jwks.publicKey(kid)
	}

	tok, err := jwtv5.Parse(token, keyfunc, jwtv5.WithValidMethods([]string{"EdDSA"}))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("identity remote: jwt inválido: %w", err)
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, errors.New("identity remote: claims_type")
	}

	if c.issuer != "" {
		if iss, _ := claims["iss"].(string); iss != c.issuer {
			return nil, errors.New("identity remote: issuer inesperado")
		}
	}

	cl := &identity.Claims{}
	if jti, _ := claims["jti"].(string); jti != "" {
		cl.ID = jti
	}
	if raw, ok := claims["groups"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				cl.Groups = append(cl.Groups, s)
			}
		}
	}
	if iat, ok := claims["iat"].(float64); ok {
		cl.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		cl.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return cl, nil
}
