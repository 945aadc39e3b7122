package figmaprototype

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kataras/figma-prototype/pkg/archive"
	"github.com/kataras/figma-prototype/pkg/figma"
	"github.com/kataras/figma-prototype/pkg/formatter"
	"github.com/kataras/figma-prototype/pkg/prototype"
	"github.com/kataras/figma-prototype/pkg/render"
	"github.com/kataras/figma-prototype/pkg/sink"
)

// Completion statuses of an export run.
const (
	StatusNothingToExport = "nothing to export"
	StatusComplete        = "export complete"
)

// DefaultProjectName is used when neither Options.ProjectName nor the document name is set.
const DefaultProjectName = "prototype"

// Options configures the export.
type Options struct {
	AccessToken string
	FileURL     string   // Figma file URL, ignored when InputFile is set
	InputFile   string   // saved file response (.json, .yaml), exports offline
	NodeIDs     []string // empty = node-id of the URL, then every top-level frame of the page
	PageName    string   // empty = first page
	ProjectName string   // empty = document name
	OutputDir   string   // used by the default sink
	GraphName   string   // archive entry name of the graph, without extension
	Concurrency int      // frames rendered at once, < 2 = sequential
	SkipWrite   bool     // build the archive but do not hand it to the sink

	Renderer prototype.Renderer     // nil = Figma render API, or the wireframe renderer offline
	Boundary prototype.BoundaryFunc // nodes whose children are not searched for hotspots, nil = instances
	Sink     sink.Sink              // nil = sink.Dir{Path: OutputDir}
	Logger   Logger                 // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the export output.
type Result struct {
	Status      string
	Payload     *prototype.Payload // nil when there was nothing to export
	Archive     []byte
	ArchiveName string
	Location    string // where the sink stored the archive, empty with SkipWrite
	Markdown    string // formatted export report
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run executes the prototype export pipeline and returns the result.
// An empty selection is not an error: the result has StatusNothingToExport and no archive.
func Run(ctx context.Context, opts Options) (*Result, error) {
	// Apply defaults.
	if opts.GraphName == "" {
		opts.GraphName = archive.DefaultGraphName
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Sink == nil {
		opts.Sink = sink.Dir{Path: opts.OutputDir}
	}

	doc, renderer, err := loadDocument(ctx, &opts)
	if err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		opts.Renderer = renderer
	}

	// Node IDs: explicit ones first, then the URL.
	targetNodeIDs := opts.NodeIDs
	if len(targetNodeIDs) == 0 && opts.InputFile == "" && opts.FileURL != "" {
		urlNodeIDs, err := figma.ExtractNodeIDs(opts.FileURL)
		if err != nil {
			return nil, fmt.Errorf("extract node IDs from URL: %w", err)
		}
		targetNodeIDs = urlNodeIDs
	}

	var (
		page   *figma.Node
		frames []*figma.Node
	)
	if len(targetNodeIDs) > 0 {
		opts.logInfo("Selecting %d node(s)...", len(targetNodeIDs))
		frames, err = doc.FindNodes(targetNodeIDs)
		if err != nil {
			return nil, fmt.Errorf("select nodes: %w", err)
		}
		page = doc.PageOf(targetNodeIDs[0])
	} else {
		page, err = doc.Page(opts.PageName)
		if err != nil {
			return nil, fmt.Errorf("select page: %w", err)
		}
		frames = figma.TopLevelFrames(page)
		opts.logInfo("Page %q has %d top-level frame(s)", page.Name, len(frames))
	}

	projectName := opts.ProjectName
	if projectName == "" {
		projectName = doc.Name
	}
	if strings.TrimSpace(projectName) == "" {
		projectName = DefaultProjectName
	}

	builder := &prototype.Builder{
		Renderer:    opts.Renderer,
		Concurrency: opts.Concurrency,
		Boundary:    opts.Boundary,
	}

	opts.logInfo("Extracting hotspots and rendering %d frame(s)...", len(frames))
	built, err := builder.Build(ctx, frames, startingFrameName(doc, page, frames))
	if err != nil {
		if errors.Is(err, prototype.ErrNothingToExport) {
			opts.logWarn("No frames selected, nothing to export")
			return &Result{Status: StatusNothingToExport}, nil
		}
		opts.logError("Export failed: %v", err)
		return nil, fmt.Errorf("build prototype: %w", err)
	}

	for _, verr := range built.Errors {
		opts.logWarn("%v", verr)
	}

	payload := &prototype.Payload{
		ExportableAssets: built.Assets,
		PrototypeGraph:   built.Graph,
		ValidationErrors: built.Errors,
		ProjectName:      projectName,
	}
	if page != nil {
		payload.PageName = page.Name
	}

	opts.logInfo("Packaging archive...")
	data, err := archive.Assemble(payload.PrototypeGraph, payload.ExportableAssets, opts.GraphName)
	if err != nil {
		return nil, fmt.Errorf("assemble archive: %w", err)
	}

	result := &Result{
		Status:      StatusComplete,
		Payload:     payload,
		Archive:     data,
		ArchiveName: archive.FileName(projectName),
		Markdown:    formatter.ToMarkdown(payload),
	}

	if opts.SkipWrite {
		return result, nil
	}

	location, err := opts.Sink.Write(ctx, result.ArchiveName, data)
	if err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}
	result.Location = location
	opts.logInfo("Archive written to %s", location)

	return result, nil
}

// loadDocument reads the document from InputFile or fetches it from the Figma API,
// returning the renderer that fits the source.
func loadDocument(ctx context.Context, opts *Options) (*figma.FileResponse, prototype.Renderer, error) {
	if opts.InputFile != "" {
		opts.logInfo("Loading document from %s...", opts.InputFile)
		doc, err := figma.LoadFile(opts.InputFile)
		if err != nil {
			return nil, nil, err
		}
		return doc, render.Wireframe{Boundary: opts.Boundary}, nil
	}

	if opts.AccessToken == "" {
		return nil, nil, errors.New("an access token is required to fetch from the Figma API")
	}

	opts.logInfo("Extracting file key from URL...")
	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return nil, nil, fmt.Errorf("extract file key: %w", err)
	}
	opts.logInfo("File key: %s", fileKey)

	client := figma.NewClient(opts.AccessToken)

	opts.logInfo("Fetching file data from Figma...")
	doc, err := client.GetFile(ctx, fileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch file: %w", err)
	}
	opts.logInfo("File: %s", doc.Name)

	return doc, render.NewAPI(client, fileKey), nil
}

// startingFrameName returns the name the graph uses for the prototype start of page.
// A start node inside the selection gets the same resolved name as its frame.
func startingFrameName(doc *figma.FileResponse, page *figma.Node, frames []*figma.Node) string {
	start := doc.PrototypeStart(page)
	if start == nil {
		return ""
	}

	names := prototype.ResolveFrameNames(frames)
	for i, f := range frames {
		if f.ID == start.ID {
			return names[i]
		}
	}

	return prototype.ResolveName(start.Name, start.ID)
}

// ParseNodeIDs parses a comma-separated string of node IDs and returns a slice.
// IDs are normalized the same way as the node-id of a URL, see figma.NormalizeNodeID.
func ParseNodeIDs(nodeIDsStr string) []string {
	parts := strings.Split(nodeIDsStr, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, figma.NormalizeNodeID(trimmed))
		}
	}

	return result
}
