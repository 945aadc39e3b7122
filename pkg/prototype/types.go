// Package prototype turns selected Figma frames into a prototype graph:
// frames with their clickable hotspots, the rendered screen of every frame
// and the validation warnings found along the way.
package prototype

import "github.com/kataras/figma-prototype/pkg/figma"

// Graph is the prototype description written to interface.json.
type Graph struct {
	StartingFrame string  `json:"startingFrame"`
	Frames        []Frame `json:"frames"`
}

// Frame is a top-level screen of the prototype.
type Frame struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Hotspots []Hotspot `json:"hotspots"`
}

// Hotspot is a node carrying at least one reaction.
// X and Y are relative to the frame the hotspot belongs to.
type Hotspot struct {
	Name    string   `json:"name"`
	ID      string   `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	W       float64  `json:"w"`
	H       float64  `json:"h"`
	Visible bool     `json:"visible"`
	Actions []Action `json:"action"`
}

// Action is a normalized reaction. Only navigate actions keep a destination and a transition.
type Action struct {
	Type          string            `json:"type"`
	DestinationID string            `json:"destinationId,omitempty"`
	Transition    *figma.Transition `json:"transition,omitempty"`
	Trigger       *figma.Trigger    `json:"trigger"`
}

// ExportableAsset is the rendered screen of a frame.
type ExportableAsset struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Setting figma.ExportSetting `json:"setting"`
	Bytes   []byte              `json:"bytes"`
}

// Payload is everything an export run hands to the presentation layer.
type Payload struct {
	ExportableAssets []ExportableAsset `json:"exportableAssets"`
	PrototypeGraph   Graph             `json:"prototypeGraph"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	ProjectName      string            `json:"projectName"`
	PageName         string            `json:"pageName"`
}

// FrameExportSetting is the single export every frame gets,
// regardless of the export settings declared on the node.
var FrameExportSetting = figma.ExportSetting{
	Format:       figma.FormatPNG,
	Suffix:       "",
	Constraint:   figma.Constraint{Type: "SCALE", Value: 1},
	ContentsOnly: true,
}
