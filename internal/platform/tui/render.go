package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	// Pure black would vanish on most terminals.
	core.ColorBlack: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// Fill runes for the preview.
const (
	runeColour     = '█'
	runeImage      = '▓'
	runeBackground = '░'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Viewport maps the logical 1600x900 projection onto a cell grid.
type Viewport struct {
	Width, Height int
}

func (v Viewport) scale() (float64, float64) {
	return float64(v.Width) / core.ProjectionWidth, float64(v.Height) / core.ProjectionHeight
}

// CellRect returns the cells covered by a logical box. Anything that
// covers some area gets at least one cell.
func (v Viewport) CellRect(box core.AABB) core.Rect {
	sx, sy := v.scale()
	x0 := int(math.Floor(box.Min.X * sx))
	y0 := int(math.Floor(box.Min.Y * sy))
	x1 := int(math.Ceil(box.Max.X * sx))
	y1 := int(math.Ceil(box.Max.Y * sy))
	if x1 <= x0 && box.Width() > 0 {
		x1 = x0 + 1
	}
	if y1 <= y0 && box.Height() > 0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// Cell returns the cell a logical point falls in.
func (v Viewport) Cell(p core.Vec2) (int, int) {
	sx, sy := v.scale()
	return int(math.Floor(p.X * sx)), int(math.Floor(p.Y * sy))
}

// Logical returns the logical point at the centre of cell (x, y).
func (v Viewport) Logical(x, y int) core.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return core.Vec2{}
	}
	sx, sy := v.scale()
	return core.V((float64(x)+0.5)/sx, (float64(y)+0.5)/sy)
}

// spriteCell picks the fill rune and colour for a sprite.
func spriteCell(s engine.Sprite, fill rune) (rune, core.Color) {
	if s.IsImage() {
		return runeImage, core.ColorCyan
	}
	return fill, s.Colour.Nearest()
}

// DrawGame draws the background, then every object back to front as a
// filled box, then the text objects asked to draw. Rotation is not shown.
func DrawGame(s *core.Screen, g *engine.Game) {
	s.Clear()
	vp := Viewport{Width: s.Width(), Height: s.Height()}

	for _, part := range g.Background {
		r, c := spriteCell(part.Sprite, runeBackground)
		s.FillRect(vp.CellRect(part.Area), r, c)
	}

	objects := g.Objects.DrawOrder()
	for _, o := range objects {
		tl := o.TopLeft()
		box := core.Box(tl.X, tl.Y, tl.X+o.Size.Width, tl.Y+o.Size.Height)
		rect := vp.CellRect(box)
		r, c := spriteCell(o.Sprite, runeColour)
		s.FillRect(rect, r, c)
		if o.Sprite.IsImage() && rect.W > 2 {
			s.DrawText(rect.X, rect.Y, clip(o.Name, rect.W), core.ColorWhite)
		}
	}

	for _, o := range objects {
		text, ok := g.DrawnText[o.Name]
		if !ok || text.Text == "" {
			continue
		}
		cx, cy := vp.Cell(o.Position)
		for i, line := range strings.Split(text.Text, "\n") {
			s.DrawTextCentered(cx, cy+i, line, text.Colour.Nearest())
		}
	}
}

func clip(text string, width int) string {
	r := []rune(text)
	if len(r) <= width {
		return text
	}
	return string(r[:width])
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
