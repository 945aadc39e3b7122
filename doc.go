// Package figmaprototype exports clickable prototypes from Figma files.
// Every selected frame becomes a screen of the prototype graph together with
// its hotspots (the nodes carrying prototype reactions), the frame is rendered
// to PNG and everything is packaged as a single .fig2u archive.
//
// The CLI lives in cmd/figma-prototype; this root package exposes the same
// pipeline as a Go API so that callers can embed exports in their own tools.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmaprototype:
//
//	import "github.com/kataras/figma-prototype" // package figmaprototype
//
// # Quick start
//
//	result, err := figmaprototype.Run(ctx, figmaprototype.Options{
//	    AccessToken: os.Getenv("FIGMA_TOKEN"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-App",
//	    PageName:    "Flows",
//	    OutputDir:   "exports",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Status, result.Location)
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages and validation warnings. A nil Logger silences all output.
//
// # Selection
//
// Frames are selected by [Options.NodeIDs], by the node-id parameter of the
// URL, or else as every top-level frame of [Options.PageName]. An empty
// selection completes with [StatusNothingToExport].
//
// # Offline exports
//
// Set [Options.InputFile] to a saved file response to export without the API.
// Frames are then drawn as wireframes unless [Options.Renderer] is set.
//
// # Storage
//
// Archives go to [Options.OutputDir] by default. Any sink.Sink can be set
// in [Options.Sink], such as an S3 bucket through sink.NewS3.
package figmaprototype
