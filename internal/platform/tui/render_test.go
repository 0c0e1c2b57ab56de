package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func TestRenderScreenPlainText(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColored(2, 0, "128", core.ColorYellow)
	s.DrawText(0, 1, "x")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen produced %d lines, want 2", len(lines))
	}
	if lines[0] != "ab128 " {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "x     " {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestStyleForUnknownColor(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	if got := styleFor(core.Color(200)).Render("x"); got != "x" {
		t.Errorf("unknown color rendered as %q", got)
	}
}
