// Package render draws board positions as SVG and PNG images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/hailam/chessd/internal/board"
	"github.com/hailam/chessd/internal/errors"
)

const (
	squareUnits = 45
	boardUnits  = 8 * squareUnits

	DefaultSize = 480
	MinSize     = 64
	MaxSize     = 2048

	// Boards are rasterized at this multiple of the requested size and
	// scaled down for smoother edges.
	renderScale = 2
)

// Square colors
const (
	lightSquare    = "#f0d9b5"
	darkSquare     = "#b58863"
	lightHighlight = "#cdd26a"
	darkHighlight  = "#aaa23a"
	checkHighlight = "#ff0000"
	checkOpacity   = "0.6"
)

// Options controls how a board is drawn.
type Options struct {
	// Size is the width and height of the PNG in pixels. Zero means DefaultSize.
	Size int

	// Flip draws the board from Black's side.
	Flip bool

	// LastMove, if set, highlights its from and to squares.
	LastMove board.Move
}

func (o Options) size() (int, error) {
	if o.Size == 0 {
		return DefaultSize, nil
	}
	if o.Size < MinSize || o.Size > MaxSize {
		return 0, fmt.Errorf("board size %d outside [%d, %d]: %w", o.Size, MinSize, MaxSize, errors.ErrInvalidConfig)
	}
	return o.Size, nil
}

// origin returns the top-left corner of sq in board units.
func origin(sq board.Square, flip bool) (x, y int) {
	file, rank := sq.File(), sq.Rank()
	if flip {
		file, rank = 7-file, 7-rank
	}
	return file * squareUnits, (7 - rank) * squareUnits
}

// SVG returns the position as an SVG document.
func SVG(pos *board.Position, opts Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`,
		boardUnits, boardUnits, boardUnits, boardUnits)

	highlighted := func(sq board.Square) bool {
		if opts.LastMove == board.NoMove {
			return false
		}
		return sq == opts.LastMove.From() || sq == opts.LastMove.To()
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := origin(sq, opts.Flip)
		light := (sq.File()+sq.Rank())%2 == 1
		fill := darkSquare
		switch {
		case light && highlighted(sq):
			fill = lightHighlight
		case light:
			fill = lightSquare
		case highlighted(sq):
			fill = darkHighlight
		}
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, squareUnits, squareUnits, fill)
	}

	if pos.InCheck() {
		x, y := origin(pos.KingSquare[pos.SideToMove], opts.Flip)
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s" fill-opacity="%s"/>`,
			x+squareUnits/2, y+squareUnits/2, squareUnits/2-2, checkHighlight, checkOpacity)
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		x, y := origin(sq, opts.Flip)
		fmt.Fprintf(&sb, `<g transform="translate(%d,%d)" %s>%s</g>`,
			x, y, pieceStyles[piece.Color()], pieceShapes[piece.Type()])
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// Image rasterizes the position.
func Image(pos *board.Position, opts Options) (*image.RGBA, error) {
	size, err := opts.size()
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(pos, opts)))
	if err != nil {
		return nil, errors.Wrap(err, "parse board svg")
	}

	renderSize := size * renderScale
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	hires := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, hires, hires.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), hires, hires.Bounds(), xdraw.Src, nil)
	return out, nil
}

// WritePNG rasterizes the position and writes it to w as a PNG.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Image(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// PNG returns the position as PNG bytes.
func PNG(pos *board.Position, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, pos, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
