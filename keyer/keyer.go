// Package keyer classifies pixels against a key color and makes the
// matching ones transparent.
//
// A pixel is keyed out when the Euclidean RGB distance between it and the
// target color is strictly less than the threshold. Keyed pixels get alpha 0;
// their R, G and B bytes are left as they were. Every other byte of the
// buffer is left untouched.
//
// The threshold is not clamped: a non-positive threshold never matches and a
// threshold above the largest possible distance (about 441.67) matches every
// pixel.
package keyer

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/chromakey/internal/parallel"
	"github.com/gogpu/chromakey/pixel"
)

// ErrBufferSize is returned when a pixel slice does not hold exactly
// width*height RGBA pixels.
var ErrBufferSize = errors.New("keyer: buffer size does not match dimensions")

// Distance returns the Euclidean distance between a and b in RGB space.
func Distance(a, b pixel.Color) float64 {
	return a.Distance(b)
}

// maxDistanceSquared is the largest squared RGB distance between two colors.
const maxDistanceSquared = 3 * 255 * 255

// limit returns the smallest integer k such that sqrt(k) >= threshold, so
// that for any integer squared distance d2, sqrt(d2) < threshold exactly when
// d2 < k. The result agrees with the true Euclidean comparison even where
// threshold*threshold rounds. ok is false when nothing can match.
func limit(threshold float64) (k int, ok bool) {
	if !(threshold > 0) { // also rejects NaN
		return 0, false
	}
	if threshold > math.Sqrt(maxDistanceSquared) {
		return maxDistanceSquared + 1, true
	}

	k = int(math.Ceil(threshold * threshold))
	for k > 0 && math.Sqrt(float64(k-1)) >= threshold {
		k--
	}
	for math.Sqrt(float64(k)) < threshold {
		k++
	}
	return k, true
}

// Matches reports whether the pixel (r, g, b) is within threshold of target,
// i.e. whether Distance < threshold.
func Matches(r, g, b uint8, target pixel.Color, threshold float64) bool {
	k, ok := limit(threshold)
	if !ok {
		return false
	}
	return target.DistanceSquared(pixel.RGB(r, g, b)) < k
}

// Key keys pix in place. pix holds width*height interleaved RGBA pixels.
func Key(pix []uint8, width, height int, target pixel.Color, threshold float64) error {
	if err := checkSize(pix, width, height); err != nil {
		return err
	}
	keyRows(pix, target, threshold)
	return nil
}

func checkSize(pix []uint8, width, height int) error {
	if width < 0 || height < 0 || len(pix) != width*height*pixel.BytesPerPixel {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(pix), width, height)
	}
	return nil
}

// keyRows is the hot loop. It compares integer squared distances against
// limit(threshold) so no square root is taken per pixel.
func keyRows(pix []uint8, target pixel.Color, threshold float64) {
	k, ok := limit(threshold)
	if !ok {
		return
	}

	tr, tg, tb := int(target.R), int(target.G), int(target.B)
	for i := 0; i+3 < len(pix); i += pixel.BytesPerPixel {
		dr := int(pix[i]) - tr
		dg := int(pix[i+1]) - tg
		db := int(pix[i+2]) - tb
		if dr*dr+dg*dg+db*db < k {
			pix[i+3] = 0
		}
	}
}

// Keyer keys whole frames, optionally spreading the rows of a frame over a
// worker pool. Rows are split into disjoint bands, so workers never write the
// same pixel.
//
// A Keyer holds no per-frame state and is safe for concurrent use on
// independent buffers.
type Keyer struct {
	pool    *parallel.WorkerPool
	ownPool bool
}

// Option configures a Keyer.
type Option func(*Keyer)

// WithWorkers keys frames with a dedicated pool of n workers.
// n <= 1 keys on the calling goroutine.
func WithWorkers(n int) Option {
	return func(k *Keyer) {
		if n <= 1 {
			k.pool, k.ownPool = nil, false
			return
		}
		k.pool, k.ownPool = parallel.NewWorkerPool(n), true
	}
}

// WithPool keys frames on a shared pool. The Keyer does not close it.
func WithPool(p *parallel.WorkerPool) Option {
	return func(k *Keyer) {
		k.pool, k.ownPool = p, false
	}
}

// New creates a Keyer. Without options it keys on the calling goroutine.
func New(opts ...Option) *Keyer {
	k := &Keyer{}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Key keys buf in place against target and threshold.
func (k *Keyer) Key(buf *pixel.Buffer, target pixel.Color, threshold float64) error {
	pix := buf.Data()
	if err := checkSize(pix, buf.Width(), buf.Height()); err != nil {
		return err
	}

	stride := buf.Stride()
	parallel.ForEachBand(k.pool, buf.Height(), func(y0, y1 int) {
		keyRows(pix[y0*stride:y1*stride], target, threshold)
	})
	return nil
}

// Close releases the Keyer's own worker pool, if any.
func (k *Keyer) Close() {
	if k.ownPool && k.pool != nil {
		k.pool.Close()
	}
}
