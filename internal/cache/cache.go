// Package cache provee una abstracción mínima de caching con backends
// memory (in-process) y redis (compartido). La usa el cliente de identidad
// para su cache de directorio de grupos; el core de autorización no cachea
// nada (cada llamada re-verifica).
package cache

import "time"

// Cache es un cache key-value de bytes con TTL.
type Cache interface {
	// Get obtiene un valor. ok=false si no existe o expiró.
	Get(k string) ([]byte, bool)
	// Set guarda un valor con TTL. ttl 0 usa el default del backend.
	Set(k string, v []byte, ttl time.Duration)
	// Delete elimina una key.
	Delete(k string)
}
