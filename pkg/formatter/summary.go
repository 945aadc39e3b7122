package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kataras/figma-prototype/pkg/archive"
	"github.com/kataras/figma-prototype/pkg/prototype"

	"gopkg.in/yaml.v3"
)

// Format is a machine readable output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Summary is the payload without image bytes, for printing.
type Summary struct {
	ProjectName string        `yaml:"projectName" json:"projectName"`
	PageName    string        `yaml:"pageName" json:"pageName"`
	Graph       any           `yaml:"prototypeGraph" json:"prototypeGraph"`
	Screens     []ScreenEntry `yaml:"screens" json:"screens"`
	Warnings    []any         `yaml:"validationErrors" json:"validationErrors"`
}

// ScreenEntry describes one packaged screen.
type ScreenEntry struct {
	ID   string `yaml:"id" json:"id"`
	File string `yaml:"file" json:"file"`
	Size int    `yaml:"size" json:"size"`
}

// NewSummary builds the printable summary of a payload.
// Graph and warnings are converted through their JSON form so both
// output formats use the same field names as interface.json.
func NewSummary(p *prototype.Payload) (*Summary, error) {
	s := &Summary{
		ProjectName: p.ProjectName,
		PageName:    p.PageName,
		Screens:     make([]ScreenEntry, 0, len(p.ExportableAssets)),
		Warnings:    make([]any, 0, len(p.ValidationErrors)),
	}

	if err := roundTrip(p.PrototypeGraph, &s.Graph); err != nil {
		return nil, fmt.Errorf("convert graph: %w", err)
	}

	for _, verr := range p.ValidationErrors {
		var w any
		if err := roundTrip(verr, &w); err != nil {
			return nil, fmt.Errorf("convert warning: %w", err)
		}
		s.Warnings = append(s.Warnings, w)
	}

	for _, a := range p.ExportableAssets {
		s.Screens = append(s.Screens, ScreenEntry{ID: a.ID, File: archive.EntryName(a), Size: len(a.Bytes)})
	}

	return s, nil
}

func roundTrip(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// WriteSummary writes the summary of a payload to w in the given format.
func WriteSummary(w io.Writer, p *prototype.Payload, format Format) error {
	s, err := NewSummary(p)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
