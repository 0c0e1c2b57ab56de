package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // fits a five-digit tile plus padding and one border
	cellHeight = 2
	hudHeight  = 3
)

// boardDimensions returns the on-screen size of an n x n board including borders.
func boardDimensions(n int) (w, h int) {
	return n*cellWidth + 1, n*cellHeight + 1
}

// TileColor returns the display color for a tile value.
func TileColor(v int) core.Color {
	switch {
	case v == 0:
		return core.ColorGray
	case v <= 4:
		return core.ColorWhite
	case v <= 16:
		return core.ColorOrange
	case v <= 64:
		return core.ColorRed
	case v <= 512:
		return core.ColorYellow
	case v <= 2048:
		return core.ColorCyan
	default:
		return core.ColorBrightMagenta
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	n := g.session.Size()
	boardW, boardH := boardDimensions(n)
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	RenderGrid(dst, g.session.Grid(), boardX, boardY)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)

	dst.DrawTextCentered(boardY+boardH+1, g.Controls())
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the score and level info.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := g.Title()
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	snap := g.session.Snapshot()
	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", snap.Score))

	bestStr := fmt.Sprintf("Best: %d", g.best())
	dst.DrawText(max(boardX+boardW-len(bestStr), boardX), 1, bestStr)

	var infoStr string
	if g.variant.Mode == ModeCampaign {
		infoStr = fmt.Sprintf("Level %d/%d  Target: %d", g.levelIndex+1, len(g.levels), g.currentTarget)
	} else {
		infoStr = fmt.Sprintf("Endless  Max: %d", snap.MaxTile)
	}
	dst.DrawText(boardX+(boardW-len(infoStr))/2, 2, infoStr)
}

// RenderGrid draws an n x n board with its top-left corner at (boardX, boardY).
func RenderGrid(dst *core.Screen, grid Grid, boardX, boardY int) {
	n := grid.Size()

	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			dst.Set(px, py, junction(x, y, n))

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	for y := range n {
		for x := range n {
			val := grid[y][x]
			if val == 0 {
				continue
			}

			valStr := strconv.Itoa(val)
			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1
			padLeft := max((cellWidth-1-len(valStr))/2, 0)

			dst.DrawTextColored(cellX+padLeft, cellY, valStr, TileColor(val))
		}
	}
}

// junction picks the box-drawing rune for a grid line crossing.
func junction(x, y, n int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == n:
		return '┐'
	case y == n && x == 0:
		return '└'
	case y == n && x == n:
		return '┘'
	case y == 0:
		return '┬'
	case y == n:
		return '┴'
	case x == 0:
		return '├'
	case x == n:
		return '┤'
	default:
		return '┼'
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.levelCleared:
		targetStr := fmt.Sprintf("Target %d reached!", g.currentTarget)
		if g.levelIndex >= len(g.levels)-1 {
			drawOverlay(dst, centerX, centerY, targetStr, "Final level complete!")
		} else {
			drawOverlay(dst, centerX, centerY, targetStr, fmt.Sprintf("Next: Level %d", g.levelIndex+2))
		}
	case g.won:
		drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!", "You are the champion!", "Press R to restart")
	case g.gameOver:
		maxStr := fmt.Sprintf("Max tile: %d", g.session.Grid().MaxTile())
		drawOverlay(dst, centerX, centerY, "GAME OVER", maxStr, "Press R to restart")
	}
}

// drawOverlay draws a boxed block of centered lines.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.CenteredRect(2*centerX, 2*centerY, maxLen+4, len(lines)+2)

	dst.FillRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/HJKL: Move | P: Pause | R: Restart | Q: Quit"
}
