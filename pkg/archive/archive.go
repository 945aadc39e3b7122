// Package archive packages a prototype graph and the rendered frames into a single .fig2u zip file.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kataras/figma-prototype/pkg/figma"
	"github.com/kataras/figma-prototype/pkg/prototype"

	"github.com/klauspost/compress/zip"
)

const (
	// Extension of the produced archive.
	Extension = ".fig2u"
	// DefaultGraphName is the base name of the graph JSON entry.
	DefaultGraphName = "interface"
	// ManifestFileName is the name of the manifest entry.
	ManifestFileName = "manifest.json"
	// ContentType of the produced archive.
	ContentType = "application/zip"
)

// ErrDuplicateEntry is returned when two entries of an archive resolve to the same file name.
var ErrDuplicateEntry = errors.New("duplicate archive entry")

// Manifest lists the files of an archive for downstream consumers.
type Manifest struct {
	FigmaJSON    string   `json:"figmaJson"`
	ScreenImages []string `json:"screenImages"`
}

// entries get a fixed timestamp so the same input always produces the same bytes.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type format struct {
	extension   string
	contentType string
}

var formats = map[string]format{
	figma.FormatPDF:  {".pdf", "application/pdf"},
	figma.FormatSVG:  {".svg", "image/svg+xml"},
	figma.FormatPNG:  {".png", "image/png"},
	figma.FormatJPG:  {".jpg", "image/jpeg"},
	figma.FormatJSON: {".json", "application/json"},
}

func lookup(exportFormat string) format {
	if f, ok := formats[strings.ToUpper(exportFormat)]; ok {
		return f
	}
	return formats[figma.FormatPNG]
}

// ExtensionFor returns the file extension of an export format. Unknown formats map to ".png".
func ExtensionFor(exportFormat string) string {
	return lookup(exportFormat).extension
}

// ContentTypeFor returns the MIME type of an export format. Unknown formats map to "image/png".
func ContentTypeFor(exportFormat string) string {
	return lookup(exportFormat).contentType
}

// EntryName returns the archive file name of an asset: name + suffix + extension.
func EntryName(asset prototype.ExportableAsset) string {
	return asset.Name + asset.Setting.Suffix + ExtensionFor(asset.Setting.Format)
}

// FileName returns the archive file name for a project.
func FileName(projectName string) string {
	return prototype.ResolveName(projectName, "export") + Extension
}

// Assemble builds the archive: the graph as <graphName>.json, one entry per asset
// and manifest.json listing them in asset order. An empty graphName means DefaultGraphName.
// Two entries with the same name fail with ErrDuplicateEntry.
func Assemble(graph prototype.Graph, assets []prototype.ExportableAsset, graphName string) ([]byte, error) {
	if graphName == "" {
		graphName = DefaultGraphName
	}
	graphFile := graphName + ExtensionFor(figma.FormatJSON)

	graphJSON, err := marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}

	manifest := Manifest{
		FigmaJSON:    graphFile,
		ScreenImages: make([]string, 0, len(assets)),
	}

	var buf bytes.Buffer
	w := newWriter(&buf)

	if err := w.add(graphFile, graphJSON); err != nil {
		return nil, err
	}

	for _, asset := range assets {
		name := EntryName(asset)
		if err := w.add(name, asset.Bytes); err != nil {
			return nil, err
		}
		manifest.ScreenImages = append(manifest.ScreenImages, name)
	}

	manifestJSON, err := marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := w.add(ManifestFileName, manifestJSON); err != nil {
		return nil, err
	}

	if err := w.zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	return buf.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

type writer struct {
	zw    *zip.Writer
	names map[string]struct{}
}

func newWriter(buf *bytes.Buffer) *writer {
	return &writer{zw: zip.NewWriter(buf), names: make(map[string]struct{})}
}

func (w *writer) add(name string, data []byte) error {
	if _, exists := w.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	w.names[name] = struct{}{}

	f, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryTime,
	})
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}
