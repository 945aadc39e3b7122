package render

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kataras/figma-prototype/pkg/figma"
)

func frame() *figma.Node {
	return &figma.Node{
		ID: "1:1", Name: "Home", Type: figma.NodeTypeFrame,
		AbsoluteBoundingBox: &figma.Rectangle{X: 50, Y: 50, Width: 320, Height: 240},
		Children: []figma.Node{
			{
				ID: "2:1", Name: "Button",
				AbsoluteBoundingBox: &figma.Rectangle{X: 60, Y: 60, Width: 100, Height: 40},
				Reactions:           []figma.Reaction{{Action: &figma.Action{Type: "BACK"}}},
			},
			{
				ID: "2:2", Name: "Off canvas",
				AbsoluteBoundingBox: &figma.Rectangle{X: 1000, Y: 1000, Width: 10, Height: 10},
			},
		},
	}
}

func TestWireframePNG(t *testing.T) {
	data, err := Wireframe{}.Render(context.Background(), frame(), figma.ExportSetting{Format: "PNG", Constraint: figma.Constraint{Type: "SCALE", Value: 1}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(320, 240) {
		t.Errorf("size = %v, want 320x240", got)
	}

	// Top edge of the Button outline, which spans x 10..110 at y 10 frame relative.
	if r, g, b, _ := img.At(100, 10).RGBA(); r>>8 != 24 || g>>8 != 160 || b>>8 != 251 {
		t.Errorf("hotspot outline color = (%d,%d,%d), want (24,160,251)", r>>8, g>>8, b>>8)
	}
}

func TestWireframeScaleAndJPG(t *testing.T) {
	data, err := Wireframe{}.Render(context.Background(), frame(), figma.ExportSetting{Format: "JPG", Constraint: figma.Constraint{Type: "SCALE", Value: 2}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
}

func TestWireframeUnsupportedFormat(t *testing.T) {
	if _, err := (Wireframe{}).Render(context.Background(), frame(), figma.ExportSetting{Format: "SVG"}); err == nil {
		t.Fatal("expected error for SVG")
	}
}

func TestWireframeWithoutBounds(t *testing.T) {
	img := Wireframe{}.Draw(&figma.Node{ID: "1:1"}, 1)
	if got := img.Bounds().Size(); got != image.Pt(1, 1) {
		t.Errorf("size = %v, want 1x1", got)
	}
}

func nestedFrame(containerType string) *figma.Node {
	return &figma.Node{
		ID: "1:1", Name: "Nested", Type: figma.NodeTypeFrame,
		AbsoluteBoundingBox: &figma.Rectangle{Width: 300, Height: 200},
		Children: []figma.Node{{
			ID: "2:1", Name: "Container", Type: containerType,
			AbsoluteBoundingBox: &figma.Rectangle{X: 20, Y: 60, Width: 260, Height: 120},
			Children: []figma.Node{{
				ID: "3:1", Name: "Button",
				AbsoluteBoundingBox: &figma.Rectangle{X: 100, Y: 100, Width: 80, Height: 30},
				Reactions:           []figma.Reaction{{Action: &figma.Action{Type: "BACK"}}},
			}},
		}},
	}
}

func TestWireframeBoundary(t *testing.T) {
	isSection := func(n *figma.Node) bool { return n.Type == "SECTION" }

	tests := []struct {
		name          string
		wf            Wireframe
		containerType string
		highlighted   bool
	}{
		{name: "group is walked", wf: Wireframe{}, containerType: "GROUP", highlighted: true},
		{name: "instance is opaque by default", wf: Wireframe{}, containerType: figma.NodeTypeInstance, highlighted: false},
		{name: "custom boundary stops at section", wf: Wireframe{Boundary: isSection}, containerType: "SECTION", highlighted: false},
		{name: "custom boundary walks instances", wf: Wireframe{Boundary: isSection}, containerType: figma.NodeTypeInstance, highlighted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := tt.wf.Draw(nestedFrame(tt.containerType), 1)

			// Top edge of the nested Button outline.
			r, g, b, _ := img.At(140, 100).RGBA()
			got := r>>8 == 24 && g>>8 == 160 && b>>8 == 251
			if got != tt.highlighted {
				t.Errorf("button highlighted = %v, want %v (color %d,%d,%d)", got, tt.highlighted, r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestAPIRender(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/images/KEY"):
			if got := r.URL.Query().Get("ids"); got != "1:1" {
				t.Errorf("ids = %q, want 1:1", got)
			}
			w.Write([]byte(`{"images":{"1:1":"` + srv.URL + `/cdn/1.png"}}`))
		case r.URL.Path == "/cdn/1.png":
			w.Write([]byte("rendered"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := figma.NewClient("token")
	client.SetBaseURL(srv.URL)

	data, err := NewAPI(client, "KEY").Render(context.Background(), frame(), figma.ExportSetting{Format: "PNG"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(data) != "rendered" {
		t.Errorf("Render() = %q, want rendered", data)
	}
}

func TestAPIRenderMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images":{"1:1":null}}`))
	}))
	defer srv.Close()

	client := figma.NewClient("token")
	client.SetBaseURL(srv.URL)

	if _, err := NewAPI(client, "KEY").Render(context.Background(), frame(), figma.ExportSetting{Format: "PNG"}); err == nil {
		t.Fatal("expected error for missing image URL")
	}
}
