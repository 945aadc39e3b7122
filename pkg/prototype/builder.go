package prototype

import (
	"context"
	"errors"
	"fmt"

	"github.com/kataras/figma-prototype/pkg/figma"

	"golang.org/x/sync/errgroup"
)

// ErrNothingToExport is returned by Build when the selection is empty.
// It marks a normal outcome, not a failure: no archive is produced.
var ErrNothingToExport = errors.New("nothing to export")

// Renderer renders a node to encoded image bytes.
type Renderer interface {
	Render(ctx context.Context, node *figma.Node, setting figma.ExportSetting) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, node *figma.Node, setting figma.ExportSetting) ([]byte, error)

func (f RendererFunc) Render(ctx context.Context, node *figma.Node, setting figma.ExportSetting) ([]byte, error) {
	return f(ctx, node, setting)
}

// Builder assembles the prototype graph of a selection.
type Builder struct {
	Renderer Renderer
	// Concurrency is the number of frames rendered at once. Values below 2 render sequentially.
	Concurrency int
	// Boundary is passed to the hotspot Extractor. Nil means IsInstance.
	Boundary BoundaryFunc
}

// BuildResult is the outcome of a successful Build.
// Graph.Frames and Assets are index aligned with the selection.
type BuildResult struct {
	Graph  Graph
	Assets []ExportableAsset
	Errors []ValidationError
}

// Build extracts the hotspots of every selected frame and renders each frame once
// with FrameExportSetting. Any render failure aborts the build; partial results are discarded.
func (b *Builder) Build(ctx context.Context, frames []*figma.Node, startingFrame string) (*BuildResult, error) {
	if len(frames) == 0 {
		return nil, ErrNothingToExport
	}
	if b.Renderer == nil {
		return nil, errors.New("prototype: nil renderer")
	}

	names := ResolveFrameNames(frames)
	collector := new(Collector)
	extractor := &Extractor{Boundary: b.Boundary, Errors: collector}

	result := &BuildResult{
		Graph: Graph{
			StartingFrame: startingFrame,
			Frames:        make([]Frame, len(frames)),
		},
		Assets: make([]ExportableAsset, len(frames)),
	}

	for i, f := range frames {
		hotspots := extractor.ExtractFrame(f)
		if hotspots == nil {
			hotspots = []Hotspot{}
		}

		box := f.Bounds()
		result.Graph.Frames[i] = Frame{
			ID:       f.ID,
			Name:     names[i],
			Width:    box.Width,
			Height:   box.Height,
			Hotspots: hotspots,
		}
	}

	if err := b.render(ctx, frames, names, result.Assets); err != nil {
		return nil, err
	}

	result.Errors = collector.Errors()
	return result, nil
}

func (b *Builder) render(ctx context.Context, frames []*figma.Node, names []string, assets []ExportableAsset) error {
	renderOne := func(ctx context.Context, i int) error {
		f := frames[i]
		data, err := b.Renderer.Render(ctx, f, FrameExportSetting)
		if err != nil {
			return fmt.Errorf("render frame %q (%s): %w", f.Name, f.ID, err)
		}

		assets[i] = ExportableAsset{
			ID:      f.ID,
			Name:    names[i],
			Setting: FrameExportSetting,
			Bytes:   data,
		}
		return nil
	}

	if b.Concurrency < 2 {
		for i := range frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := renderOne(ctx, i); err != nil {
				return err
			}
		}
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Concurrency)
	for i := range frames {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return renderOne(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Cancelled runs produce no output even when every render finished.
	return ctx.Err()
}
