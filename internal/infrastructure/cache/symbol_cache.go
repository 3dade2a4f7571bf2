package cache

import (
	"context"
	"time"
)

// SymbolCache stores encoded barcode and QR bitmaps keyed by their content,
// symbology, and pixel dimensions. Symbol encoding is deterministic, so a
// cache hit is always byte-identical to a fresh render.
type SymbolCache interface {
	// Get returns the cached PNG for the key, or found=false on a miss
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	// Set stores a PNG with a TTL
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Close releases underlying resources
	Close() error
}
