// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image/png"
	"os"
)

// SavePNG writes a snapshot of s to a PNG file.
func SavePNG(s Surface, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("surface: create file: %w", err)
	}
	if err := png.Encode(f, s.Snapshot()); err != nil {
		_ = f.Close()
		return fmt.Errorf("surface: encode png: %w", err)
	}
	return f.Close()
}
