package ai

import (
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

const maxLabels = 10

// Label is one label-detection result: a textual tag with the API's
// confidence in it.
type Label struct {
	Description string
	Score       float32
}

// Vision runs label detection against the Cloud Vision API.
type Vision struct {
	client *vision.ImageAnnotatorClient
}

func NewVision(client *vision.ImageAnnotatorClient) *Vision {
	return &Vision{client: client}
}

func (v *Vision) DetectLabels(ctx context.Context, imageBytes []byte) ([]Label, error) {
	annotations, err := v.client.DetectLabels(ctx,
		&visionpb.Image{Content: imageBytes}, nil, maxLabels)
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	labels := make([]Label, 0, len(annotations))
	for _, a := range annotations {
		labels = append(labels, Label{
			Description: a.GetDescription(),
			Score:       a.GetScore(),
		})
	}
	return labels, nil
}
