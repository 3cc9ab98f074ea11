package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// minBandRows keeps bands large enough that scheduling overhead stays small
// next to the per-pixel work.
const minBandRows = 16

// Bands splits height rows into at most n contiguous bands of near-equal size.
// Bands are never smaller than minBandRows rows, except for the last one.
// Returns nil for a non-positive height.
func Bands(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(n, 1)
	n = min(n, (height+minBandRows-1)/minBandRows)
	n = max(n, 1)

	bands := make([]Band, 0, n)
	size := height / n
	extra := height % n
	y := 0
	for i := range n {
		h := size
		if i < extra {
			h++
		}
		bands = append(bands, Band{Y0: y, Y1: y + h})
		y += h
	}
	return bands
}

// ForEachBand calls fn once per band of height rows and waits for all calls.
// With a nil pool, or when only one band results, fn runs on the calling
// goroutine.
//
// fn must only write to rows inside its band.
func ForEachBand(p *WorkerPool, height int, fn func(y0, y1 int)) {
	workers := 1
	if p != nil {
		workers = p.Workers()
	}

	bands := Bands(height, workers)
	if len(bands) <= 1 || p == nil {
		for _, b := range bands {
			fn(b.Y0, b.Y1)
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b.Y0, b.Y1) }
	}
	p.ExecuteAll(work)
}
