package service

import (
	"net/url"

	"github.com/polylinkapp/polylink/internal/app/classifier"
	"github.com/polylinkapp/polylink/internal/app/model"
)

// ActionKind discriminates the two possible resolution outcomes.
type ActionKind int

const (
	// ActionRedirect sends the visitor to a platform destination.
	ActionRedirect ActionKind = iota
	// ActionPreview renders social-preview metadata for a crawler.
	ActionPreview
)

// Preview carries the Open Graph fields rendered for crawlers.
type Preview struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Type        string
}

// ResolvedAction is what the transport layer turns into an HTTP response.
// Location may be empty when the stored link lacks the selected destination;
// the caller must treat that as a bad link configuration, not redirect to it.
type ResolvedAction struct {
	Kind     ActionKind
	Location string
	Preview  Preview
}

// previewType is the fixed Open Graph object type for link previews.
const previewType = "website"

// Resolver turns a stored link plus a request classification into a concrete
// action. Pure: no I/O, safe for concurrent use.
type Resolver struct {
	baseURL *url.URL
}

// NewResolver returns a resolver that forms public link URLs under base.
func NewResolver(base *url.URL) *Resolver {
	return &Resolver{baseURL: base}
}

// PublicURL returns the canonical absolute URL for a link path.
func (r *Resolver) PublicURL(path string) string {
	return r.baseURL.JoinPath(path).String()
}

// Resolve applies the platform routing policy.
//
// Crawlers always get the preview, regardless of destination fields. Users
// get the destination for their platform, web being the fallback for unknown
// platforms. An unset destination is passed through empty so the transport
// layer can surface the configuration gap.
func (r *Resolver) Resolve(cls classifier.Classification, link *model.Link) ResolvedAction {
	if cls.Crawler {
		return ResolvedAction{
			Kind: ActionPreview,
			Preview: Preview{
				Title:       link.Title,
				Description: link.Description,
				URL:         r.PublicURL(link.Path),
				ImageURL:    link.ImageURL,
				Type:        previewType,
			},
		}
	}

	var target string
	switch cls.Platform {
	case classifier.PlatformAndroid:
		target = link.AndroidDestination
	case classifier.PlatformIOS:
		target = link.IOSDestination
	default:
		// Web and unknown platforms share the web destination.
		target = link.WebDestination
	}

	return ResolvedAction{Kind: ActionRedirect, Location: target}
}
