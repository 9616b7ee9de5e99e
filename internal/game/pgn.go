package game

import (
	"fmt"
	"io"
	"strings"
)

const pgnLineLength = 80

// pgnWriter writes space-separated tokens, breaking lines at a maximum length.
type pgnWriter struct {
	w          io.Writer
	lineLength int
	needsSpace bool
}

func (o *pgnWriter) write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > pgnLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}
	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// WritePGN writes the game as PGN: the seven tag roster followed by the
// movetext in SAN and the result.
func (g *Game) WritePGN(w io.Writer) {
	result := g.State.Result()

	tags := [][2]string{
		{"Event", "Casual game"},
		{"Site", "chessd"},
		{"Date", g.Created.Format("2006.01.02")},
		{"Round", "-"},
		{"White", g.White},
		{"Black", g.Black},
		{"Result", result},
	}
	for _, tag := range tags {
		value := tag[1]
		if value == "" {
			value = "?"
		}
		fmt.Fprintf(w, "[%s \"%s\"]\n", tag[0], escapeTagValue(value))
	}
	fmt.Fprintln(w)

	ow := &pgnWriter{w: w}
	for i, san := range g.SAN() {
		if i%2 == 0 {
			ow.write(fmt.Sprintf("%d.", i/2+1))
		}
		ow.write(san)
	}
	ow.write(result)
	fmt.Fprintln(w)
}

// PGN returns the game as a PGN string.
func (g *Game) PGN() string {
	var sb strings.Builder
	g.WritePGN(&sb)
	return sb.String()
}

func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
