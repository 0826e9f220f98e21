package keepsake

import (
	"fmt"
	"image"
	"image/draw"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// Cat printer paper is 384 dots wide.
const (
	ticketWidth = 384
	marginX     = 16
	lineHeight  = 18
	qrSize      = 176
)

// Ticket describes a printable keepsake.
type Ticket struct {
	Title    string
	Lines    []string
	QRTarget string
	Footer   string
}

// Render draws the ticket as a monochrome image sized for the printer.
func (t Ticket) Render() image.Image {
	face := basicfont.Face7x13
	maxChars := (ticketWidth - 2*marginX) / 7

	var lines []string
	lines = append(lines, wrap(strings.ToUpper(t.Title), maxChars)...)
	lines = append(lines, "")
	for _, l := range t.Lines {
		lines = append(lines, wrap(l, maxChars)...)
	}

	height := 24 + len(lines)*lineHeight + 16
	if t.QRTarget != "" {
		height += qrSize + 16
	}
	if t.Footer != "" {
		height += lineHeight + 8
	}
	height += 24

	img := image.NewGray(image.Rect(0, 0, ticketWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}

	y := 24 + lineHeight
	for _, line := range lines {
		drawer.Dot = fixed.P(marginX, y)
		drawer.DrawString(line)
		y += lineHeight
	}
	y += 16

	if t.QRTarget != "" {
		if qr, err := qrcode.New(t.QRTarget, qrcode.Medium); err == nil {
			qrImg := qr.Image(qrSize)
			x := (ticketWidth - qrSize) / 2
			rect := image.Rect(x, y, x+qrSize, y+qrSize)
			xdraw.NearestNeighbor.Scale(img, rect, qrImg, qrImg.Bounds(), xdraw.Src, nil)
		}
		y += qrSize + 16
	}

	if t.Footer != "" {
		drawer.Dot = fixed.P(marginX, y+lineHeight)
		drawer.DrawString(t.Footer)
	}

	threshold(img)
	return img
}

// threshold snaps every pixel to pure black or white so dithering on the
// printer side has nothing to smear.
func threshold(img *image.Gray) {
	for i, p := range img.Pix {
		if p < 128 {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 255
		}
	}
}

func wrap(text string, maxChars int) []string {
	if maxChars < 1 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) <= maxChars {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)
	return lines
}

// FormatVisitDate renders a scheduled museum visit for the ticket body.
func FormatVisitDate(d time.Time) string {
	return d.Format("Monday, 2 January 2006")
}

func dayLine(day int) string {
	return fmt.Sprintf("Day %d of 25", day)
}
