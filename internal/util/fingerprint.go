package util

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// TokenFP calcula una huella corta y estable de un token bearer, apta para
// logs y auditoría. Nunca loguear el token crudo: siempre pasar por acá.
// Formato: primeros 8 bytes de blake2b-256, en hex (16 chars).
func TokenFP(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
