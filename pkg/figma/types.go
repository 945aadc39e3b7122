package figma

// FileResponse represents the complete response from the Figma file API endpoint.
// It contains the file metadata and the full document tree including prototype reactions.
type FileResponse struct {
	Name          string `json:"name"`
	LastModified  string `json:"lastModified"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	Version       string `json:"version"`
	Document      Node   `json:"document"`
	SchemaVersion int    `json:"schemaVersion"`
}

// ImagesResponse is the response of the render endpoint, a map of node ID to
// a temporary URL of the rendered image. An empty URL means the node could not be rendered.
type ImagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}

// Node types referenced by the prototype exporter.
const (
	NodeTypeDocument = "DOCUMENT"
	NodeTypeCanvas   = "CANVAS"
	NodeTypeFrame    = "FRAME"
	NodeTypeInstance = "INSTANCE"
)

// Node represents a single element in the Figma document tree hierarchy.
// Only the properties needed to describe a clickable prototype are decoded:
// geometry, opacity, prototype reactions, export settings and children.
// CANVAS nodes additionally carry the prototype starting points of the page.
type Node struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	Children            []Node          `json:"children,omitempty"`
	Opacity             *float64        `json:"opacity,omitempty"`
	AbsoluteBoundingBox *Rectangle      `json:"absoluteBoundingBox,omitempty"`
	Reactions           []Reaction      `json:"reactions,omitempty"`
	ExportSettings      []ExportSetting `json:"exportSettings,omitempty"`

	PrototypeStartNodeID string              `json:"prototypeStartNodeID,omitempty"`
	FlowStartingPoints   []FlowStartingPoint `json:"flowStartingPoints,omitempty"`
}

// Bounds returns the absolute bounding box of the node or a zero rectangle.
func (n *Node) Bounds() Rectangle {
	if n.AbsoluteBoundingBox == nil {
		return Rectangle{}
	}
	return *n.AbsoluteBoundingBox
}

// Visible reports whether the node is not fully transparent.
// A missing opacity means the Figma default of 1.
func (n *Node) Visible() bool {
	return n.Opacity == nil || *n.Opacity != 0
}

// FlowStartingPoint marks a node where a prototype flow begins.
type FlowStartingPoint struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`
}

// Reaction is a trigger/action pair attached to a node.
// Older files carry a single Action, newer ones the Actions list.
type Reaction struct {
	Action  *Action  `json:"action,omitempty"`
	Actions []Action `json:"actions,omitempty"`
	Trigger *Trigger `json:"trigger,omitempty"`
}

// AllActions returns the actions of the reaction regardless of which field carries them.
func (r Reaction) AllActions() []Action {
	if len(r.Actions) > 0 {
		return r.Actions
	}
	if r.Action != nil {
		return []Action{*r.Action}
	}
	return nil
}

// Action types and navigation kinds as returned by the API.
const (
	ActionTypeNode = "NODE"
	ActionTypeBack = "BACK"
	ActionTypeURL  = "URL"

	NavigationScrollTo = "SCROLL_TO"

	TransitionSmartAnimate = "SMART_ANIMATE"
)

// Action describes what happens when a reaction fires.
// Only NODE actions carry a destination and a transition.
type Action struct {
	Type          string      `json:"type"`
	DestinationID *string     `json:"destinationId,omitempty"`
	Navigation    string      `json:"navigation,omitempty"`
	Transition    *Transition `json:"transition,omitempty"`
	URL           string      `json:"url,omitempty"`
}

// IsNavigate reports whether the action moves the prototype to another node.
func (a Action) IsNavigate() bool {
	return a.Type == ActionTypeNode && a.Navigation != NavigationScrollTo
}

// Transition describes the animation between two frames.
type Transition struct {
	Type        string  `json:"type"`
	Duration    float64 `json:"duration,omitempty"`
	Easing      *Easing `json:"easing,omitempty"`
	Direction   string  `json:"direction,omitempty"`
	MatchLayers bool    `json:"matchLayers,omitempty"`
}

// Easing is the timing function of a transition.
type Easing struct {
	Type string `json:"type"`
}

// Trigger describes the user input firing a reaction, e.g. ON_CLICK.
type Trigger struct {
	Type    string  `json:"type"`
	Delay   float64 `json:"delay,omitempty"`
	Timeout float64 `json:"timeout,omitempty"`
}

// Export formats.
const (
	FormatPNG  = "PNG"
	FormatJPG  = "JPG"
	FormatSVG  = "SVG"
	FormatPDF  = "PDF"
	FormatJSON = "JSON"
)

// ExportSetting controls how a node is rendered to bytes.
type ExportSetting struct {
	Format       string     `json:"format"`
	Suffix       string     `json:"suffix"`
	Constraint   Constraint `json:"constraint"`
	ContentsOnly bool       `json:"contentsOnly"`
}

// Scale returns the scale factor of a SCALE constraint, defaulting to 1.
func (s ExportSetting) Scale() float64 {
	if s.Constraint.Type == "SCALE" && s.Constraint.Value > 0 {
		return s.Constraint.Value
	}
	return 1
}

// Constraint sizes an export, e.g. SCALE 2 or WIDTH 300.
type Constraint struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Rectangle represents a bounding box with position (X, Y) and dimensions (Width, Height).
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
