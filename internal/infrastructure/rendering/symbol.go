package rendering

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"go.uber.org/zap"

	"github.com/labeldesk/backend/internal/domain/designer"
	"github.com/labeldesk/backend/internal/infrastructure/cache"
)

// PlaceholderContent is the sample payload used for symbol elements whose
// content is still empty, so the canvas always shows a realistic symbol.
const PlaceholderContent = "0123456789"

// defaultSymbolTTL bounds how long encoded symbols stay cached. Encoding is
// deterministic, so the TTL only limits memory, never correctness.
const defaultSymbolTTL = 24 * time.Hour

// SymbolRenderer encodes barcode and QR payloads into bitmaps, backed by a
// shared cache. Concurrent requests for the same key are serialized with a
// per-key lock so one encoder run populates the cache for all of them.
type SymbolRenderer struct {
	cache  cache.SymbolCache
	ttl    time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*keyedLock
}

// keyedLock is a refcounted mutex; the map entry is dropped once the last
// holder releases it, so the lock table stays proportional to in-flight
// renders rather than to every key ever seen.
type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewSymbolRenderer creates a symbol renderer. The cache may be nil, in
// which case every request encodes from scratch.
func NewSymbolRenderer(symbolCache cache.SymbolCache, logger *zap.Logger) *SymbolRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SymbolRenderer{
		cache:  symbolCache,
		ttl:    defaultSymbolTTL,
		logger: logger,
		locks:  make(map[string]*keyedLock),
	}
}

// Render encodes the payload into a bitmap of the requested pixel size.
// Empty content falls back to the placeholder payload. Encoding failures
// return a SYMBOL_ENCODE_FAILED error; callers draw the error glyph and
// keep painting the rest of the design.
func (r *SymbolRenderer) Render(ctx context.Context, content string, symbology designer.Symbology, widthPx, heightPx int) (image.Image, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return nil, NewRenderError(ErrCodeEncodeFailed,
			fmt.Sprintf("symbol target size %dx%d is not positive", widthPx, heightPx), nil)
	}
	if content == "" {
		content = PlaceholderContent
	}

	key := fmt.Sprintf("%s|%s|%dx%d", symbology, content, widthPx, heightPx)

	r.lockKey(key)
	defer r.unlockKey(key)

	if img, ok := r.cacheGet(ctx, key); ok {
		return img, nil
	}

	img, err := encodeSymbol(content, symbology, widthPx, heightPx)
	if err != nil {
		return nil, err
	}

	r.cachePut(ctx, key, img)
	return img, nil
}

// lockKey acquires the mutex guarding one cache key
func (r *SymbolRenderer) lockKey(key string) {
	r.mu.Lock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &keyedLock{}
		r.locks[key] = lock
	}
	lock.refs++
	r.mu.Unlock()

	lock.mu.Lock()
}

// unlockKey releases the key mutex and evicts the entry with the last holder
func (r *SymbolRenderer) unlockKey(key string) {
	r.mu.Lock()
	lock := r.locks[key]
	lock.refs--
	if lock.refs == 0 {
		delete(r.locks, key)
	}
	r.mu.Unlock()

	lock.mu.Unlock()
}

func (r *SymbolRenderer) cacheGet(ctx context.Context, key string) (image.Image, bool) {
	if r.cache == nil {
		return nil, false
	}
	data, found, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("symbol cache read failed", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		r.logger.Warn("cached symbol is not decodable, re-encoding", zap.Error(err))
		return nil, false
	}
	return img, true
}

func (r *SymbolRenderer) cachePut(ctx context.Context, key string, img image.Image) {
	if r.cache == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		r.logger.Warn("symbol PNG encode for cache failed", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, key, buf.Bytes(), r.ttl); err != nil {
		r.logger.Warn("symbol cache write failed", zap.Error(err))
	}
}

// encodeSymbol runs the actual barcode library for one payload
func encodeSymbol(content string, symbology designer.Symbology, widthPx, heightPx int) (image.Image, error) {
	var (
		code barcode.Barcode
		err  error
	)

	switch symbology {
	case designer.SymbologyCode128:
		code, err = code128.Encode(content)
	case designer.SymbologyEAN13:
		code, err = ean.Encode(content)
	case designer.SymbologyCode39:
		code, err = code39.Encode(content, true, true)
	case designer.SymbologyQR:
		code, err = qr.Encode(content, qr.M, qr.Auto)
	default:
		// Unknown symbologies are rejected at ingestion and intercepted by
		// the paint paths before reaching the encoder.
		return nil, NewRenderError(ErrCodeEncodeFailed,
			fmt.Sprintf("unsupported symbology %q", symbology), nil)
	}
	if err != nil {
		return nil, NewRenderError(ErrCodeEncodeFailed,
			fmt.Sprintf("cannot encode %q as %s", content, symbology), err)
	}

	scaled, err := barcode.Scale(code, widthPx, heightPx)
	if err != nil {
		return nil, NewRenderError(ErrCodeEncodeFailed,
			fmt.Sprintf("cannot scale %s symbol to %dx%d", symbology, widthPx, heightPx), err)
	}
	return scaled, nil
}

// unknownSymbologyTile draws the diagnostic tile for a format the encoder
// does not implement: the hatched background overlaid with the element type,
// the raw content, and the requested format name, so the output alone tells
// the operator what could not be encoded.
func unknownSymbologyTile(elementType designer.ElementType, content string, symbology designer.Symbology, widthPx, heightPx int) image.Image {
	if content == "" {
		content = PlaceholderContent
	}
	tile := &Surface{img: fallbackTile(widthPx, heightPx)}
	label := elementType.String() + "\n" + content + "\n" + symbology.String()
	tile.DrawText(tile.Bounds(), label, colorInk, AlignMid)
	return tile.Image()
}

// fallbackTile draws the hatched gray background of the diagnostic tile
func fallbackTile(widthPx, heightPx int) *image.RGBA {
	if widthPx <= 0 {
		widthPx = 1
	}
	if heightPx <= 0 {
		heightPx = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	bg := color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	hatch := color.RGBA{R: 0xBB, G: 0xBB, B: 0xBB, A: 0xFF}
	for y := 0; y < heightPx; y++ {
		for x := 0; x < widthPx; x++ {
			if (x+y)%8 == 0 {
				img.Set(x, y, hatch)
			} else {
				img.Set(x, y, bg)
			}
		}
	}
	return img
}

// ErrorGlyph draws the red placeholder used when a symbol payload cannot be
// encoded: a filled light tile with a diagonal cross, the conventional
// broken-content marker.
func ErrorGlyph(widthPx, heightPx int) image.Image {
	if widthPx <= 0 {
		widthPx = 1
	}
	if heightPx <= 0 {
		heightPx = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	bg := color.RGBA{R: 0xFF, G: 0xE8, B: 0xE8, A: 0xFF}
	stroke := color.RGBA{R: 0xCC, G: 0x22, B: 0x22, A: 0xFF}

	for y := 0; y < heightPx; y++ {
		for x := 0; x < widthPx; x++ {
			img.Set(x, y, bg)
		}
	}
	// Border
	for x := 0; x < widthPx; x++ {
		img.Set(x, 0, stroke)
		img.Set(x, heightPx-1, stroke)
	}
	for y := 0; y < heightPx; y++ {
		img.Set(0, y, stroke)
		img.Set(widthPx-1, y, stroke)
	}
	// Diagonal cross
	for x := 0; x < widthPx; x++ {
		y := x * (heightPx - 1) / max(widthPx-1, 1)
		img.Set(x, y, stroke)
		img.Set(x, heightPx-1-y, stroke)
	}
	return img
}
