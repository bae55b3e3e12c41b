package llm

import (
	"context"
	"fmt"
	"strings"
)

// MIME types that can be sent to the vision model directly.
var visionMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

const imagePrompt = `Describe this image in detail. If it contains text, transcribe it exactly. ` +
	`If it is a diagram, chart, or screenshot, explain what it shows. ` +
	`Respond with the description only.`

const pdfPrompt = `Transcribe the full text content of this PDF document as markdown. ` +
	`Preserve headings, lists, and tables. Respond with the transcription only.`

const markdownPrompt = `Convert the following document to clean markdown, preserving its structure. ` +
	`Respond with the markdown only.

`

// UnsupportedContentError indicates content whose MIME type no extraction
// path can handle.
type UnsupportedContentError struct {
	MimeType string
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("unsupported content type for text extraction: %s", e.MimeType)
}

// ExtractTextContent converts binary or textual content into searchable text
// based on its MIME type. Images are described by the vision model, PDFs are
// transcribed, plain text passes through unchanged, and other textual formats
// are converted to markdown.
func ExtractTextContent(ctx context.Context, client Client, data []byte, mimeType string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))

	switch {
	case visionMIMETypes[normalized]:
		text, err := client.GenerateFromBlob(ctx, imagePrompt, data, normalized, TierStandard)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from image: %w", err)
		}
		return text, nil

	case strings.Contains(normalized, "pdf"):
		text, err := client.GenerateFromBlob(ctx, pdfPrompt, data, "application/pdf", TierStandard)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from PDF: %w", err)
		}
		return text, nil

	case normalized == "text/plain":
		return string(data), nil

	case strings.Contains(normalized, "text"):
		text, err := client.GenerateContent(ctx, markdownPrompt+string(data), TierLite)
		if err != nil {
			return "", fmt.Errorf("failed to convert content to markdown: %w", err)
		}
		return text, nil

	default:
		return "", &UnsupportedContentError{MimeType: mimeType}
	}
}

// Extractor binds a Client to the extraction entry point so callers can
// depend on a narrow interface instead of the full client.
type Extractor struct {
	client Client
}

// NewExtractor returns an Extractor backed by the given client.
func NewExtractor(client Client) *Extractor {
	return &Extractor{client: client}
}

// ExtractTextContent implements per-resource text extraction.
func (e *Extractor) ExtractTextContent(ctx context.Context, data []byte, mimeType string) (string, error) {
	return ExtractTextContent(ctx, e.client, data, mimeType)
}
