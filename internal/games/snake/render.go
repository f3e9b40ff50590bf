package snake

import (
	"fmt"

	"github.com/vovakirdan/snake-arena/internal/core"
)

// Board geometry on screen: every cell is two columns wide so the grid looks square.
const (
	cellWidth   = 2
	boardWidth  = GridSize*cellWidth + 2
	boardHeight = GridSize + 2
	hudHeight   = 1

	// MinScreenW and MinScreenH are the smallest screen a board fits on.
	MinScreenW = boardWidth
	MinScreenH = boardHeight + hudHeight + 1
)

// Render draws the current round into dst.
func (g *Game) Render(dst *core.Screen) {
	snap := g.Snapshot()
	hud := fmt.Sprintf(" %s  Score: %d  Mode: %s", g.Title(), g.score, g.mode.Title())
	RenderBoard(dst, snap, hud)

	switch g.status {
	case StatusIdle:
		renderOverlay(dst, "Press SPACE to start", "TAB switches mode")
	case StatusPaused:
		renderOverlay(dst, "Paused", "SPACE to continue")
	case StatusGameOver:
		renderOverlay(dst, "Game Over", fmt.Sprintf("Final score: %d", g.score))
	}

	dst.DrawTextColored(0, dst.Height()-1, " arrows/WASD steer  SPACE start/pause  ESC reset  Q quit", core.ColorGray)
}

// RenderBoard draws a snapshot with a one-line header above the board.
func RenderBoard(dst *core.Screen, snap Snapshot, hud string) {
	dst.Clear()
	dst.DrawText(0, 0, hud)

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		return
	}

	box := boardRect(dst)
	borderColor := core.ColorGray
	if snap.Mode == ModeWalls {
		borderColor = core.ColorYellow
	}
	dst.DrawBox(box, borderColor)

	if snap.Food.InBounds() {
		x, y := cellOrigin(box, snap.Food)
		dst.SetColored(x, y, '●', core.ColorRed)
	}

	for i, seg := range snap.Snake {
		if !seg.InBounds() {
			continue
		}
		color := core.ColorGreen
		if i == 0 {
			color = core.ColorBrightGreen
		}
		x, y := cellOrigin(box, seg)
		dst.SetColored(x, y, '█', color)
		dst.SetColored(x+1, y, '█', color)
	}
}

func boardRect(dst *core.Screen) core.Rect {
	x := core.Clamp((dst.Width()-boardWidth)/2, 0, dst.Width())
	return core.NewRect(x, hudHeight, boardWidth, boardHeight)
}

func cellOrigin(box core.Rect, p Position) (int, int) {
	return box.X + 1 + p.X*cellWidth, box.Y + 1 + p.Y
}

func renderOverlay(dst *core.Screen, title, subtitle string) {
	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		return
	}
	box := boardRect(dst)
	mid := box.Y + box.H/2
	panel := core.NewRect(box.X+6, mid-2, box.W-12, 5)
	dst.FillRect(panel, ' ')
	dst.DrawBox(panel, core.ColorCyan)
	drawCenteredIn(dst, panel, mid-1, title, core.ColorBrightMagenta)
	drawCenteredIn(dst, panel, mid+1, subtitle, core.ColorDefault)
}

func drawCenteredIn(dst *core.Screen, r core.Rect, y int, text string, c core.Color) {
	x := r.X + (r.W-len([]rune(text)))/2
	dst.DrawTextColored(x, y, text, c)
}
