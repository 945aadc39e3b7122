package figma

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNodeNotFound is returned when a requested node does not exist in the document.
var ErrNodeNotFound = errors.New("node not found")

// LoadFile reads a saved file response (the body of GET /v1/files/:key) from disk.
// Files ending in .yaml or .yml are accepted too, using the same field names as the JSON form.
func LoadFile(path string) (*FileResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Decode generically and re-encode so the json tags stay the single source of field names.
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse yaml document: %w", err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("convert yaml document: %w", err)
		}
	}

	var fileResp FileResponse
	if err := json.Unmarshal(data, &fileResp); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return &fileResp, nil
}

// Pages returns the CANVAS children of the document.
func (f *FileResponse) Pages() []*Node {
	var pages []*Node
	for i := range f.Document.Children {
		if f.Document.Children[i].Type == NodeTypeCanvas {
			pages = append(pages, &f.Document.Children[i])
		}
	}
	return pages
}

// Page returns the page with the given name, or the first page when name is empty.
func (f *FileResponse) Page(name string) (*Node, error) {
	pages := f.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	if name == "" {
		return pages[0], nil
	}
	for _, p := range pages {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("page %q: %w", name, ErrNodeNotFound)
}

// PageOf returns the page containing the node with the given ID.
func (f *FileResponse) PageOf(id string) *Node {
	for _, p := range f.Pages() {
		if FindNode(p, id) != nil {
			return p
		}
	}
	return nil
}

// FindNode searches the subtree rooted at root for the node with the given ID.
func FindNode(root *Node, id string) *Node {
	if root.ID == id {
		return root
	}
	for i := range root.Children {
		if found := FindNode(&root.Children[i], id); found != nil {
			return found
		}
	}
	return nil
}

// FindNodes resolves every ID in order. A missing ID fails with ErrNodeNotFound.
func (f *FileResponse) FindNodes(ids []string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n := FindNode(&f.Document, id)
		if n == nil {
			return nil, fmt.Errorf("node %s: %w", id, ErrNodeNotFound)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// TopLevelFrames returns the FRAME children of a page in document order.
func TopLevelFrames(page *Node) []*Node {
	var frames []*Node
	for i := range page.Children {
		if page.Children[i].Type == NodeTypeFrame {
			frames = append(frames, &page.Children[i])
		}
	}
	return frames
}

// PrototypeStart returns the node where the page's prototype starts,
// preferring prototypeStartNodeID over the first flow starting point. It returns nil if none is set.
func (f *FileResponse) PrototypeStart(page *Node) *Node {
	if page == nil {
		return nil
	}

	id := page.PrototypeStartNodeID
	if id == "" && len(page.FlowStartingPoints) > 0 {
		id = page.FlowStartingPoints[0].NodeID
	}
	if id == "" {
		return nil
	}

	return FindNode(page, id)
}
