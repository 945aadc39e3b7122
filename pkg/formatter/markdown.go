package formatter

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-prototype/pkg/archive"
	"github.com/kataras/figma-prototype/pkg/prototype"
)

// ToMarkdown renders an export payload as a markdown report: the frames with their
// hotspots and destinations, the packaged screens and the validation warnings to fix in Figma.
func ToMarkdown(p *prototype.Payload) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Prototype Export - %s\n\n", p.ProjectName))
	if p.PageName != "" {
		sb.WriteString(fmt.Sprintf("Page: **%s**\n\n", p.PageName))
	}

	graph := p.PrototypeGraph
	if graph.StartingFrame != "" {
		sb.WriteString(fmt.Sprintf("Starting frame: **%s**\n\n", graph.StartingFrame))
	} else {
		sb.WriteString("Starting frame: _not set_\n\n")
	}

	frameNames := make(map[string]string, len(graph.Frames))
	for _, f := range graph.Frames {
		frameNames[f.ID] = f.Name
	}

	// Frames
	sb.WriteString("## Frames\n\n")
	for _, f := range graph.Frames {
		sb.WriteString(fmt.Sprintf("### %s\n\n", f.Name))
		sb.WriteString(fmt.Sprintf("- **ID**: `%s`\n", f.ID))
		sb.WriteString(fmt.Sprintf("- **Size**: %.0f×%.0f\n", f.Width, f.Height))
		sb.WriteString(fmt.Sprintf("- **Hotspots**: %d\n\n", len(f.Hotspots)))

		if len(f.Hotspots) == 0 {
			continue
		}

		sb.WriteString("| Hotspot | Bounds | Trigger | Action | Destination |\n")
		sb.WriteString("|---------|--------|---------|--------|-------------|\n")
		for _, h := range f.Hotspots {
			name := h.Name
			if !h.Visible {
				name += " (hidden)"
			}
			bounds := fmt.Sprintf("%.0f,%.0f %.0f×%.0f", h.X, h.Y, h.W, h.H)

			if len(h.Actions) == 0 {
				sb.WriteString(fmt.Sprintf("| %s | %s | - | - | - |\n", escapeCell(name), bounds))
				continue
			}
			for _, a := range h.Actions {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
					escapeCell(name), bounds, triggerOf(a), actionOf(a), escapeCell(destinationOf(a, frameNames))))
			}
		}
		sb.WriteString("\n")
	}

	// Exported screens
	if len(p.ExportableAssets) > 0 {
		sb.WriteString("## Exported Screens\n\n")
		sb.WriteString("| Frame | File | Type | Size |\n")
		sb.WriteString("|-------|------|------|------|\n")
		for _, a := range p.ExportableAssets {
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
				escapeCell(a.Name), archive.EntryName(a), archive.ContentTypeFor(a.Setting.Format), humanSize(len(a.Bytes))))
		}
		sb.WriteString("\n")
	}

	// Warnings
	sb.WriteString("## Warnings\n\n")
	if len(p.ValidationErrors) == 0 {
		sb.WriteString("No warnings.\n")
		return sb.String()
	}

	for _, verr := range p.ValidationErrors {
		switch e := verr.(type) {
		case *prototype.DuplicateHotspotError:
			sb.WriteString(fmt.Sprintf("- **Duplicate hotspot name** `%s`:\n", e.Name))
			for _, d := range e.Duplicates {
				sb.WriteString(fmt.Sprintf("  - %s (`%s`)\n", d.Path, d.ID))
			}
		case *prototype.UnsupportedTransitionError:
			sb.WriteString(fmt.Sprintf("- **Smart animate is not supported** on %s (`%s`), trigger %s\n", e.Path, e.ID, e.Trigger))
		default:
			sb.WriteString(fmt.Sprintf("- %s\n", verr.Error()))
		}
	}

	return sb.String()
}

func triggerOf(a prototype.Action) string {
	if a.Trigger == nil || a.Trigger.Type == "" {
		return "-"
	}
	return a.Trigger.Type
}

func actionOf(a prototype.Action) string {
	if a.Transition == nil {
		return a.Type
	}
	return fmt.Sprintf("%s (%s)", a.Type, a.Transition.Type)
}

func destinationOf(a prototype.Action, frameNames map[string]string) string {
	if a.DestinationID == "" {
		return "-"
	}
	if name, ok := frameNames[a.DestinationID]; ok {
		return name
	}
	return a.DestinationID
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
