// Package classifier decides who is on the other end of a request: a known
// crawler, or a human on Android, iOS, or a desktop browser. The crawler
// signature table is compiled once at startup and shared read-only.
package classifier

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
)

//go:embed crawler_user_agents.json
var rawCrawlerData []byte

// Platform is the OS family inferred from a non-crawler user agent.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
	PlatformUnknown Platform = "unknown"
)

// Classification tags a request as either a crawler or a user on a platform.
// When Crawler is true, Platform is meaningless and BotName carries the
// matched signature name.
type Classification struct {
	Crawler  bool
	BotName  string
	Platform Platform
}

func (c Classification) String() string {
	if c.Crawler {
		return "crawler(" + c.BotName + ")"
	}
	return string(c.Platform)
}

type crawlerSignature struct {
	name    string
	pattern *regexp.Regexp
}

// signatureEntry mirrors one record of the embedded crawler dataset.
type signatureEntry struct {
	Pattern string `json:"pattern"`
	Name    string `json:"name"`
}

var (
	androidPattern = regexp.MustCompile(`Android`)
	iosPattern     = regexp.MustCompile(`iPhone|iPad|iPod`)
	webPattern     = regexp.MustCompile(`Windows|Macintosh|Linux`)
)

// Classifier holds the compiled crawler signature table. Safe for concurrent
// use; it is never mutated after New returns.
type Classifier struct {
	crawlers []crawlerSignature
}

// New parses the embedded crawler dataset and compiles every pattern.
func New() (*Classifier, error) {
	return newFromJSON(rawCrawlerData)
}

func newFromJSON(data []byte) (*Classifier, error) {
	var entries []signatureEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("classifier: parse crawler dataset: %w", err)
	}

	crawlers := make([]crawlerSignature, 0, len(entries))
	for _, entry := range entries {
		re, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("classifier: compile pattern %q: %w", entry.Pattern, err)
		}
		crawlers = append(crawlers, crawlerSignature{name: entry.Name, pattern: re})
	}

	return &Classifier{crawlers: crawlers}, nil
}

// Classify maps a User-Agent header value to a Classification. An empty
// string means the header was absent and yields PlatformUnknown.
//
// Crawler signatures are checked before platform tokens: many bots embed
// OS-like strings ("Android", "Macintosh") in their user agents, and those
// requests must still be treated as crawlers.
func (c *Classifier) Classify(userAgent string) Classification {
	if userAgent == "" {
		return Classification{Platform: PlatformUnknown}
	}

	for _, crawler := range c.crawlers {
		if crawler.pattern.MatchString(userAgent) {
			return Classification{Crawler: true, BotName: crawler.name}
		}
	}

	switch {
	case androidPattern.MatchString(userAgent):
		return Classification{Platform: PlatformAndroid}
	case iosPattern.MatchString(userAgent):
		return Classification{Platform: PlatformIOS}
	case webPattern.MatchString(userAgent):
		return Classification{Platform: PlatformWeb}
	}

	return Classification{Platform: PlatformUnknown}
}

// SignatureCount reports how many crawler signatures are loaded.
func (c *Classifier) SignatureCount() int {
	return len(c.crawlers)
}
