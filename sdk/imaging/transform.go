// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package imaging

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

const jpegQuality = 80

var mimeFormats = []struct {
	mime   string
	format Format
}{
	{"image/jpeg", FormatJPEG},
	{"image/png", FormatPNG},
	{"image/gif", FormatGIF},
	{"image/bmp", FormatBMP},
	{"image/tiff", FormatTIFF},
	{"image/webp", FormatWebP},
}

// formats with an encoder; anything else is written as JPEG
var encoders = map[Format]imaging.Format{
	FormatJPEG: imaging.JPEG,
	FormatPNG:  imaging.PNG,
	FormatGIF:  imaging.GIF,
	FormatBMP:  imaging.BMP,
	FormatTIFF: imaging.TIFF,
}

var extensions = map[Format]string{
	FormatJPEG: ".jpg",
	FormatPNG:  ".png",
	FormatGIF:  ".gif",
	FormatBMP:  ".bmp",
	FormatTIFF: ".tiff",
	FormatWebP: ".webp",
}

// Result is a re-encoded image. Fallback is set when the output format
// differs from the input's.
type Result struct {
	Data     []byte
	Format   Format
	Ext      string
	Fallback bool
}

// DetectFormat sniffs the image format from magic bytes. Unknown input
// reports JPEG and false.
func DetectFormat(buf []byte) (Format, bool) {
	m := mimetype.Detect(buf)
	for _, mf := range mimeFormats {
		if m.Is(mf.mime) {
			return mf.format, true
		}
	}
	return FormatJPEG, false
}

// Ext returns the file extension written for f.
func (f Format) Ext() string {
	if ext, ok := extensions[f]; ok {
		return ext
	}
	return extensions[FormatJPEG]
}

func outputFormat(detected Format, known bool) (Format, imaging.Format, bool) {
	if enc, ok := encoders[detected]; ok && known {
		return detected, enc, false
	}
	return FormatJPEG, imaging.JPEG, true
}

// ResizeSquare crops buf to a dim x dim square, keeping the most detailed
// region, and re-encodes it.
func ResizeSquare(buf []byte, dim int) (*Result, error) {
	if dim <= 0 {
		return nil, &uperrors.TransformFailedError{Cause: fmt.Errorf("invalid dimension %d", dim)}
	}

	detected, known := DetectFormat(buf)
	img, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &uperrors.TransformFailedError{Cause: err}
	}

	out := coverCrop(img, dim)

	format, enc, fallback := outputFormat(detected, known)
	var b bytes.Buffer
	if err := imaging.Encode(&b, out, enc, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, &uperrors.TransformFailedError{Cause: err}
	}

	return &Result{
		Data:     b.Bytes(),
		Format:   format,
		Ext:      format.Ext(),
		Fallback: fallback,
	}, nil
}
