package prototype

import "github.com/kataras/figma-prototype/pkg/figma"

const breadcrumbSeparator = " > "

// BoundaryFunc reports whether the traversal must stop at a node.
// A boundary node is still checked for reactions, but its children are never visited.
type BoundaryFunc func(*figma.Node) bool

// IsInstance is the default boundary: component instances are opaque.
func IsInstance(n *figma.Node) bool {
	return n.Type == figma.NodeTypeInstance
}

// usedNames tracks the hotspot names met while walking one frame.
type usedNames map[string]*nameUse

type nameUse struct {
	first Location
	dup   *DuplicateHotspotError // created on the second occurrence
}

// Extractor collects the hotspots of frames.
type Extractor struct {
	// Boundary decides where the traversal stops. Nil means IsInstance.
	Boundary BoundaryFunc
	// Errors receives validation errors. It must be non-nil.
	Errors *Collector
}

// ExtractFrame returns the hotspots of a top-level frame in pre-order.
// Duplicate hotspot names are detected within the frame only.
func (e *Extractor) ExtractFrame(frame *figma.Node) []Hotspot {
	origin := frame.Bounds()
	return e.extract(frame, origin, make(usedNames), "")
}

func (e *Extractor) extract(node *figma.Node, origin figma.Rectangle, used usedNames, parentPath string) []Hotspot {
	path := node.Name
	if parentPath != "" {
		path = parentPath + breadcrumbSeparator + node.Name
	}

	var hotspots []Hotspot

	if len(node.Reactions) > 0 {
		hotspots = append(hotspots, e.hotspot(node, origin, path))
		e.checkDuplicate(node, path, used)
		e.checkTransitions(node, path)
	}

	if e.isBoundary(node) {
		return hotspots
	}

	for i := range node.Children {
		hotspots = append(hotspots, e.extract(&node.Children[i], origin, used, path)...)
	}

	return hotspots
}

func (e *Extractor) isBoundary(n *figma.Node) bool {
	if e.Boundary == nil {
		return IsInstance(n)
	}
	return e.Boundary(n)
}

func (e *Extractor) hotspot(node *figma.Node, origin figma.Rectangle, path string) Hotspot {
	box := node.Bounds()

	h := Hotspot{
		Name:    node.Name,
		ID:      node.ID,
		X:       box.X - origin.X,
		Y:       box.Y - origin.Y,
		W:       box.Width,
		H:       box.Height,
		Visible: node.Visible(),
		Actions: []Action{},
	}

	for _, r := range node.Reactions {
		for _, a := range r.AllActions() {
			h.Actions = append(h.Actions, normalizeAction(a, r.Trigger))
		}
	}

	return h
}

func normalizeAction(a figma.Action, trigger *figma.Trigger) Action {
	action := Action{Type: a.Type, Trigger: trigger}
	if !a.IsNavigate() {
		return action
	}

	if a.DestinationID != nil {
		action.DestinationID = *a.DestinationID
	}
	action.Transition = a.Transition
	return action
}

// checkDuplicate records the first use of a name silently, creates one
// DuplicateHotspotError on the second use and extends it on every later use.
func (e *Extractor) checkDuplicate(node *figma.Node, path string, used usedNames) {
	loc := Location{ID: node.ID, Path: path}

	use, ok := used[node.Name]
	if !ok {
		used[node.Name] = &nameUse{first: loc}
		return
	}

	if use.dup == nil {
		use.dup = &DuplicateHotspotError{
			Name:       node.Name,
			Duplicates: []Location{use.first, loc},
		}
		e.Errors.Add(use.dup)
		return
	}

	use.dup.Duplicates = append(use.dup.Duplicates, loc)
}

func (e *Extractor) checkTransitions(node *figma.Node, path string) {
	for _, r := range node.Reactions {
		for _, a := range r.AllActions() {
			if !a.IsNavigate() || a.Transition == nil || a.Transition.Type != figma.TransitionSmartAnimate {
				continue
			}

			trigger := ""
			if r.Trigger != nil {
				trigger = r.Trigger.Type
			}

			e.Errors.Add(&UnsupportedTransitionError{
				ID:      node.ID,
				Name:    node.Name,
				Path:    path,
				Trigger: trigger,
			})
		}
	}
}
