package prototype

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kataras/figma-prototype/pkg/figma"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer returns "png:<id>" for every node.
type fakeRenderer struct {
	calls  atomic.Int32
	failOn string
	delay  time.Duration
}

func (r *fakeRenderer) Render(ctx context.Context, node *figma.Node, setting figma.ExportSetting) ([]byte, error) {
	r.calls.Add(1)
	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.delay):
		}
	}
	if node.ID == r.failOn {
		return nil, errors.New("boom")
	}
	return []byte("png:" + node.ID), nil
}

func TestBuildSingleFrameWithoutReactions(t *testing.T) {
	frames := []*figma.Node{{ID: "1:1", Name: "F1", Type: figma.NodeTypeFrame, AbsoluteBoundingBox: box(0, 0, 800, 600)}}

	res, err := (&Builder{Renderer: new(fakeRenderer)}).Build(context.Background(), frames, "F1")
	require.NoError(t, err)

	assert.Equal(t, Graph{
		StartingFrame: "F1",
		Frames:        []Frame{{ID: "1:1", Name: "F1", Width: 800, Height: 600, Hotspots: []Hotspot{}}},
	}, res.Graph)
	require.Len(t, res.Assets, 1)
	assert.Equal(t, FrameExportSetting, res.Assets[0].Setting)
	assert.Equal(t, "PNG", res.Assets[0].Setting.Format)
	assert.Equal(t, []byte("png:1:1"), res.Assets[0].Bytes)
	assert.Empty(t, res.Errors)

	data, err := json.Marshal(res.Graph)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startingFrame":"F1","frames":[{"id":"1:1","name":"F1","width":800,"height":600,"hotspots":[]}]}`, string(data))
}

func TestBuildChildNavigation(t *testing.T) {
	frames := []*figma.Node{{
		ID: "1:1", Name: "F2", AbsoluteBoundingBox: box(0, 0, 375, 812),
		Children: []figma.Node{{
			ID: "2:1", Name: "C", AbsoluteBoundingBox: box(16, 700, 343, 48),
			Reactions: []figma.Reaction{{
				Action:  &figma.Action{Type: "NODE", DestinationID: strPtr("X"), Navigation: "NAVIGATE"},
				Trigger: &figma.Trigger{Type: "ON_CLICK"},
			}},
		}},
	}}

	res, err := (&Builder{Renderer: new(fakeRenderer)}).Build(context.Background(), frames, "")
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	assert.Equal(t, []Hotspot{{
		Name: "C", ID: "2:1", X: 16, Y: 700, W: 343, H: 48, Visible: true,
		Actions: []Action{{Type: "NODE", DestinationID: "X", Trigger: &figma.Trigger{Type: "ON_CLICK"}}},
	}}, res.Graph.Frames[0].Hotspots)
}

func TestBuildEmptySelection(t *testing.T) {
	r := new(fakeRenderer)
	res, err := (&Builder{Renderer: r}).Build(context.Background(), nil, "F1")
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Nil(t, res)
	assert.Zero(t, r.calls.Load())
}

func TestBuildRenderFailureIsFatal(t *testing.T) {
	frames := []*figma.Node{{ID: "1:1", Name: "A"}, {ID: "1:2", Name: "B"}, {ID: "1:3", Name: "C"}}
	r := &fakeRenderer{failOn: "1:2"}

	res, err := (&Builder{Renderer: r}).Build(context.Background(), frames, "")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), `"B"`)
	assert.EqualValues(t, 2, r.calls.Load(), "sequential build must stop at the failing frame")
}

func TestBuildErrorsAccumulateAcrossFrames(t *testing.T) {
	dup := func(id string) *figma.Node {
		return &figma.Node{ID: id, Name: "F" + id, Children: []figma.Node{
			{ID: id + "a", Name: "Next", Reactions: []figma.Reaction{navigate("x", figma.TransitionSmartAnimate)}},
			{ID: id + "b", Name: "Next", Reactions: []figma.Reaction{back()}},
		}}
	}

	res, err := (&Builder{Renderer: new(fakeRenderer)}).Build(context.Background(), []*figma.Node{dup("1"), dup("2")}, "")
	require.NoError(t, err)
	require.Len(t, res.Errors, 4)

	for i, want := range []string{KindUnsupportedTransition, KindDuplicateHotspot, KindUnsupportedTransition, KindDuplicateHotspot} {
		assert.Equal(t, want, res.Errors[i].Kind(), "errors[%d]", i)
	}
}

func TestBuildConcurrentKeepsOrder(t *testing.T) {
	var frames []*figma.Node
	for _, id := range []string{"1:1", "1:2", "1:3", "1:4", "1:5", "1:6"} {
		frames = append(frames, &figma.Node{ID: id, Name: "Screen"})
	}

	res, err := (&Builder{Renderer: &fakeRenderer{delay: time.Millisecond}, Concurrency: 3}).Build(context.Background(), frames, "")
	require.NoError(t, err)

	for i, f := range frames {
		assert.Equal(t, f.ID, res.Graph.Frames[i].ID)
		assert.Equal(t, f.ID, res.Assets[i].ID)
		assert.Equal(t, res.Graph.Frames[i].Name, res.Assets[i].Name)
		assert.Equal(t, []byte("png:"+f.ID), res.Assets[i].Bytes)
	}
	assert.Equal(t, "Screen", res.Assets[0].Name)
	assert.Equal(t, "Screen-1-2", res.Assets[1].Name)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames := []*figma.Node{{ID: "1:1", Name: "A"}, {ID: "1:2", Name: "B"}}
	for _, concurrency := range []int{0, 4} {
		res, err := (&Builder{Renderer: &fakeRenderer{delay: time.Second}, Concurrency: concurrency}).Build(ctx, frames, "")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, res)
	}
}

func TestValidationErrorJSON(t *testing.T) {
	errs := []ValidationError{
		&DuplicateHotspotError{Name: "A", Duplicates: []Location{{ID: "1", Path: "F > A"}, {ID: "2", Path: "F > A"}}},
		&UnsupportedTransitionError{ID: "3", Name: "B", Path: "F > B", Trigger: "ON_CLICK"},
	}

	data, err := json.Marshal(errs)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"DUPLICATE_HOTSPOT","name":"A","duplicates":[{"id":"1","path":"F > A"},{"id":"2","path":"F > A"}]},
		{"type":"UNSUPPORTED ACTION: SMART_ANIMATE","id":"3","name":"B","path":"F > B","trigger":"ON_CLICK"}
	]`, string(data))
}
