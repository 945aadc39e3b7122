// Package render provides the renderers used to turn prototype frames into image bytes.
package render

import (
	"context"
	"fmt"

	"github.com/kataras/figma-prototype/pkg/figma"
)

// API renders nodes through the Figma images endpoint and downloads the result.
type API struct {
	Client  *figma.Client
	FileKey string
}

// NewAPI returns a renderer for the nodes of the given file.
func NewAPI(client *figma.Client, fileKey string) *API {
	return &API{Client: client, FileKey: fileKey}
}

// Render asks Figma for a rendered image of node and downloads it.
func (r *API) Render(ctx context.Context, node *figma.Node, setting figma.ExportSetting) ([]byte, error) {
	imgResp, err := r.Client.GetImages(ctx, r.FileKey, []string{node.ID}, setting.Format, setting.Scale(), setting.ContentsOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get image from Figma API: %w", err)
	}

	imageURL := imgResp.Images[node.ID]
	if imageURL == "" {
		return nil, fmt.Errorf("no image URL returned for node %s", node.ID)
	}

	data, err := r.Client.Download(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", node.Name, err)
	}

	return data, nil
}
