// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// coverCrop scales img so its short side is dim, then trims the long side
// down to dim.
func coverCrop(img image.Image, dim int) *image.NRGBA {
	b := img.Bounds()
	var scaled *image.NRGBA
	if b.Dx() <= b.Dy() {
		scaled = imaging.Resize(img, dim, 0, imaging.Lanczos)
	} else {
		scaled = imaging.Resize(img, 0, dim, imaging.Lanczos)
	}
	return entropyCrop(scaled, dim)
}

// entropyCrop repeatedly drops whichever edge strip of the long side carries
// less information until the image is dim pixels along it.
func entropyCrop(img *image.NRGBA, dim int) *image.NRGBA {
	rect := img.Bounds()
	horizontal := rect.Dx() > rect.Dy()

	for {
		long := rect.Dy()
		if horizontal {
			long = rect.Dx()
		}
		excess := long - dim
		if excess <= 0 {
			break
		}
		step := min(excess, max(1, long/10))

		if horizontal {
			head := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+step, rect.Max.Y)
			tail := image.Rect(rect.Max.X-step, rect.Min.Y, rect.Max.X, rect.Max.Y)
			if entropy(img, head) < entropy(img, tail) {
				rect.Min.X += step
			} else {
				rect.Max.X -= step
			}
		} else {
			head := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+step)
			tail := image.Rect(rect.Min.X, rect.Max.Y-step, rect.Max.X, rect.Max.Y)
			if entropy(img, head) < entropy(img, tail) {
				rect.Min.Y += step
			} else {
				rect.Max.Y -= step
			}
		}
	}

	if rect == img.Bounds() {
		return img
	}
	return imaging.Crop(img, rect)
}

// entropy is the Shannon entropy of the luma histogram of r.
func entropy(img *image.NRGBA, r image.Rectangle) float64 {
	var hist [256]int
	total := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := img.PixOffset(x, y)
			p := img.Pix[i : i+3 : i+3]
			luma := (299*int(p[0]) + 587*int(p[1]) + 114*int(p[2])) / 1000
			hist[luma]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	var e float64
	for _, n := range hist {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}
