package share

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRSize is the side length of generated PNG images in pixels.
const QRSize = 256

// QR renders link as a PNG image.
func QR(link string) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}
	return png, nil
}

// QRTerminal renders link with half-block characters, two modules per cell,
// so it stays square in most terminal fonts. Dark modules are drawn as blocks.
func QRTerminal(link string) (string, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("generating qr code: %w", err)
	}

	bitmap := qr.Bitmap()

	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteRune('\n')
	}

	return b.String(), nil
}
