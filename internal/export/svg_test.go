package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/render"
)

func TestFrameToSVG(t *testing.T) {
	pos := []mgl32.Vec2{{0.5, 0.5}, {0, 1}, {1.5, 0.2}, {0.25, -0.1}}
	svg := FrameToSVG(pos, 800, render.DefaultStyle())

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("output is not a complete svg document")
	}
	if got := strings.Count(svg, "<rect x="); got != 2 {
		t.Errorf("expected 2 particles inside the unit square, got %d", got)
	}
	if !strings.Contains(svg, `fill="#ff991a"`) {
		t.Errorf("expected default orange fill, got %s", svg[:200])
	}
	// (0,1) is the top-left corner once y is flipped.
	if !strings.Contains(svg, `<rect x="-1.5" y="-1.5"`) {
		t.Error("expected y axis to point up")
	}
	if !strings.Contains(svg, `<rect x="398.5" y="398.5"`) {
		t.Error("expected center particle in the middle")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{0.4, 0.2, 0.3}, 200, 100, "#00ff00")
	if !strings.Contains(svg, `d="M0.0,`) {
		t.Error("path should start at the left edge")
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments, got %d", strings.Count(svg, " L"))
	}

	if SeriesToSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("single point should produce no svg")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.svg")
	svg := FrameToSVG([]mgl32.Vec2{{0.5, 0.5}}, 100, render.DefaultStyle())
	if err := WriteFile(path, svg); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != svg {
		t.Error("file content differs from svg")
	}
}
