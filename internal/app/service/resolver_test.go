package service

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/polylinkapp/polylink/internal/app/classifier"
	"github.com/polylinkapp/polylink/internal/app/model"
)

func testLink() *model.Link {
	return &model.Link{
		ID:                 uuid.New(),
		Path:               "ABC123XYZ456ABC123XYZ456",
		Title:              "Launch party",
		Description:        "Come celebrate with us",
		ImageURL:           "https://cdn.example.com/party.png",
		WebDestination:     "https://example.com/party",
		IOSDestination:     "https://apps.apple.com/app/party",
		AndroidDestination: "https://play.google.com/store/apps/details?id=com.party",
	}
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	base, err := url.Parse("https://poly.example.com")
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	return NewResolver(base)
}

func TestResolve_CrawlerGetsPreview(t *testing.T) {
	r := newTestResolver(t)
	link := testLink()

	action := r.Resolve(classifier.Classification{Crawler: true, BotName: "Twitterbot"}, link)

	if action.Kind != ActionPreview {
		t.Fatalf("expected preview action, got %v", action.Kind)
	}
	if action.Preview.Title != link.Title || action.Preview.Description != link.Description {
		t.Fatal("preview metadata does not match the link")
	}
	if action.Preview.Type != "website" {
		t.Fatalf("expected og type website, got %q", action.Preview.Type)
	}
	want := "https://poly.example.com/" + link.Path
	if action.Preview.URL != want {
		t.Fatalf("expected preview url %q, got %q", want, action.Preview.URL)
	}
}

func TestResolve_CrawlerIgnoresDestinations(t *testing.T) {
	r := newTestResolver(t)
	link := testLink()
	link.WebDestination = ""
	link.IOSDestination = ""
	link.AndroidDestination = ""

	action := r.Resolve(classifier.Classification{Crawler: true}, link)
	if action.Kind != ActionPreview {
		t.Fatalf("expected preview even with empty destinations, got %v", action.Kind)
	}
}

func TestResolve_PlatformRouting(t *testing.T) {
	r := newTestResolver(t)
	link := testLink()

	tests := []struct {
		name     string
		platform classifier.Platform
		want     string
	}{
		{"android", classifier.PlatformAndroid, link.AndroidDestination},
		{"ios", classifier.PlatformIOS, link.IOSDestination},
		{"web", classifier.PlatformWeb, link.WebDestination},
		{"unknown falls back to web", classifier.PlatformUnknown, link.WebDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := r.Resolve(classifier.Classification{Platform: tt.platform}, link)
			if action.Kind != ActionRedirect {
				t.Fatalf("expected redirect, got %v", action.Kind)
			}
			if action.Location != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, action.Location)
			}
		})
	}
}

func TestResolve_EmptyDestinationPassesThrough(t *testing.T) {
	r := newTestResolver(t)
	link := testLink()
	link.AndroidDestination = ""

	action := r.Resolve(classifier.Classification{Platform: classifier.PlatformAndroid}, link)
	if action.Kind != ActionRedirect {
		t.Fatalf("expected redirect, got %v", action.Kind)
	}
	if action.Location != "" {
		t.Fatalf("expected empty location, got %q", action.Location)
	}
}

func TestPublicURL_JoinsBaseAndPath(t *testing.T) {
	base, _ := url.Parse("https://poly.example.com/go")
	r := NewResolver(base)

	got := r.PublicURL("FOO")
	if got != "https://poly.example.com/go/FOO" {
		t.Fatalf("unexpected public url %q", got)
	}
}
