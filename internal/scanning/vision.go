package scanning

import (
	"bytes"
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/apiv1"
	"google.golang.org/api/option"
)

// Vision recognizes text with Google Cloud Vision document text detection
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a Cloud Vision recognizer. With an empty credentials
// path, application default credentials are used.
func NewVision(ctx context.Context, credentialsFile string) (*Vision, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	return &Vision{client: client}, nil
}

func (v *Vision) Name() string { return "vision" }

// Recognize detects document text in the image
func (v *Vision) Recognize(ctx context.Context, png []byte) (string, error) {
	image, err := vision.NewImageFromReader(bytes.NewReader(png))
	if err != nil {
		return "", fmt.Errorf("creating image: %w", err)
	}

	annotation, err := v.client.DetectDocumentText(ctx, image, nil)
	if err != nil {
		return "", fmt.Errorf("detecting document text: %w", err)
	}
	if annotation == nil {
		return "", nil
	}
	return annotation.Text, nil
}

// Close closes the Vision client
func (v *Vision) Close() error {
	return v.client.Close()
}
