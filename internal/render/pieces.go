package render

import "github.com/hailam/chessd/internal/board"

// Piece glyphs in a 45x45 box. Each is drawn with the fill and stroke of
// its color.
var pieceShapes = [6]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="6"/>` +
		`<path d="M19 20 L26 20 L30 35 L15 35 Z"/>` +
		`<rect x="11" y="35" width="23" height="4"/>`,
	board.Knight: `<path d="M13 38 L32 38 L31 28 L33 17 L27 9 L23 7 L22 11 L17 14 L11 21 L13 25 L19 23 L15 31 Z"/>` +
		`<circle cx="24" cy="14" r="1.5"/>`,
	board.Bishop: `<circle cx="22.5" cy="9" r="3"/>` +
		`<ellipse cx="22.5" cy="23" rx="7" ry="10"/>` +
		`<path d="M22.5 17 L26 21"/>` +
		`<rect x="12" y="34" width="21" height="5"/>`,
	board.Rook: `<path d="M11 9 L15 9 L15 12 L19 12 L19 9 L26 9 L26 12 L30 12 L30 9 L34 9 L34 16 L11 16 Z"/>` +
		`<rect x="14" y="16" width="17" height="17"/>` +
		`<rect x="10" y="33" width="25" height="6"/>`,
	board.Queen: `<path d="M11 34 L34 34 L38 13 L29 25 L27 9 L22.5 24 L18 9 L16 25 L7 13 Z"/>` +
		`<circle cx="7" cy="12" r="2"/><circle cx="18" cy="8" r="2"/><circle cx="27" cy="8" r="2"/><circle cx="38" cy="12" r="2"/>` +
		`<rect x="10" y="34" width="25" height="5"/>`,
	board.King: `<rect x="21" y="5" width="3" height="12"/>` +
		`<rect x="17" y="8" width="11" height="3"/>` +
		`<path d="M12 34 L33 34 L31 19 L14 19 Z"/>` +
		`<rect x="10" y="34" width="25" height="5"/>`,
}

var pieceStyles = [2]string{
	board.White: `fill="#ffffff" stroke="#000000" stroke-width="1.5" stroke-linejoin="round"`,
	board.Black: `fill="#222222" stroke="#000000" stroke-width="1.5" stroke-linejoin="round"`,
}
