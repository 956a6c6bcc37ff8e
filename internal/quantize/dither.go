package quantize

import (
	"github.com/ironsheep/image-reduce-mcp/internal/palette"
	"github.com/ironsheep/image-reduce-mcp/internal/raster"
)

// errorRows holds the diffused error for two scanlines. Row y reads from
// rows[y%2] and writes below into rows[(y+1)%2]. Each row stores three ints
// per pixel.
type errorRows [2][]int

func newErrorRows(width int) errorRows {
	return errorRows{make([]int, 3*width), make([]int, 3*width)}
}

func (e errorRows) current(y int) []int { return e[y%2] }
func (e errorRows) next(y int) []int    { return e[(y+1)%2] }

// floydSteinberg maps src onto pal in raster-scan order, spreading each
// pixel's quantization error to its unvisited neighbours with weights 7/16
// (right), 3/16 (below left), 5/16 (below) and 1/16 (below right).
// Contributions that would fall outside the raster are dropped.
func floydSteinberg(dst, src *raster.Raster, pal palette.Palette) {
	w, h := src.Width, src.Height
	rows := newErrorRows(w)

	for y := 0; y < h; y++ {
		cur, nxt := rows.current(y), rows.next(y)
		clear(nxt)
		below := y+1 < h

		in, out := src.Row(y), dst.Row(y)
		for x := 0; x < w; x++ {
			i := 3 * x
			r := clampByte(int(in[i]) + cur[i])
			g := clampByte(int(in[i+1]) + cur[i+1])
			b := clampByte(int(in[i+2]) + cur[i+2])

			c := pal[pal.Index(r, g, b)]
			out[i], out[i+1], out[i+2] = c.R, c.G, c.B

			errs := [3]int{int(r) - int(c.R), int(g) - int(c.G), int(b) - int(c.B)}
			for ch, e := range errs {
				if e == 0 {
					continue
				}
				if x+1 < w {
					cur[i+3+ch] += e * 7 / 16
				}
				if !below {
					continue
				}
				if x > 0 {
					nxt[i-3+ch] += e * 3 / 16
				}
				nxt[i+ch] += e * 5 / 16
				if x+1 < w {
					nxt[i+3+ch] += e * 1 / 16
				}
			}
		}
	}
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
