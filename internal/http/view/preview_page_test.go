package view

import (
	"strings"
	"testing"
)

func TestRenderPreviewPage(t *testing.T) {
	html, err := RenderPreviewPage(PreviewPageData{
		Title:       "Launch party",
		Description: "Come celebrate with us",
		URL:         "https://poly.example.com/ABC123",
		ImageURL:    "https://cdn.example.com/party.png",
		Type:        "website",
	})
	if err != nil {
		t.Fatalf("RenderPreviewPage error: %v", err)
	}

	for _, want := range []string{
		`<meta property="og:title" content="Launch party" />`,
		`<meta property="og:description" content="Come celebrate with us" />`,
		`<meta property="og:type" content="website" />`,
		`<meta property="og:url" content="https://poly.example.com/ABC123" />`,
		`<meta property="og:image" content="https://cdn.example.com/party.png" />`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
}

func TestRenderPreviewPage_OmitsEmptyImage(t *testing.T) {
	html, err := RenderPreviewPage(PreviewPageData{
		Title: "No image",
		URL:   "https://poly.example.com/X",
	})
	if err != nil {
		t.Fatalf("RenderPreviewPage error: %v", err)
	}
	if strings.Contains(html, "og:image") {
		t.Fatal("expected og:image to be omitted when no image is set")
	}
	if !strings.Contains(html, `content="website"`) {
		t.Fatal("expected default og type website")
	}
}

func TestRenderPreviewPage_EscapesMetadata(t *testing.T) {
	html, err := RenderPreviewPage(PreviewPageData{
		Title: `"/><script>alert(1)</script>`,
		URL:   "https://poly.example.com/X",
	})
	if err != nil {
		t.Fatalf("RenderPreviewPage error: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("metadata must be escaped")
	}
}
