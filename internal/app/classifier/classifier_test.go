package classifier

import "testing"

func TestClassify_AbsentUserAgent(t *testing.T) {
	c := mustNew(t)

	got := c.Classify("")
	if got.Crawler {
		t.Fatal("expected absent user agent to not be a crawler")
	}
	if got.Platform != PlatformUnknown {
		t.Fatalf("expected unknown platform, got %s", got.Platform)
	}
}

func TestClassify_CrawlerBeatsPlatform(t *testing.T) {
	// Googlebot's mobile UA contains "Android"; the signature table must win.
	ua := "Mozilla/5.0 (Linux; Android 6.0.1; Nexus 5X Build/MMB29P) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.175 Mobile Safari/537.36 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

	got := mustNew(t).Classify(ua)
	if !got.Crawler {
		t.Fatalf("expected crawler, got %s", got)
	}
	if got.BotName != "Googlebot" {
		t.Fatalf("expected Googlebot signature, got %q", got.BotName)
	}
}

func TestClassify_Platforms(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Platform
	}{
		{
			name: "android phone",
			ua:   "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
			want: PlatformAndroid,
		},
		{
			name: "iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
			want: PlatformIOS,
		},
		{
			name: "ipad",
			ua:   "Mozilla/5.0 (iPad; CPU OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
			want: PlatformIOS,
		},
		{
			name: "linux desktop",
			ua:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			want: PlatformWeb,
		},
		{
			name: "windows desktop",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			want: PlatformWeb,
		},
		{
			name: "macintosh desktop",
			ua:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
			want: PlatformWeb,
		},
		{
			name: "unrecognized",
			ua:   "SomeExoticAgent/1.0",
			want: PlatformUnknown,
		},
	}

	c := mustNew(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.ua)
			if got.Crawler {
				t.Fatalf("expected a user classification, got %s", got)
			}
			if got.Platform != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Platform)
			}
		})
	}
}

func TestClassify_AndroidBeforeDesktopTokens(t *testing.T) {
	// Android UAs contain "Linux"; the Android rule is checked first.
	ua := "Mozilla/5.0 (Linux; Android 11; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.141 Mobile Safari/537.36"

	got := mustNew(t).Classify(ua)
	if got.Platform != PlatformAndroid {
		t.Fatalf("expected android, got %s", got)
	}
}

func TestClassify_SocialPreviewBots(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", "Facebook External Hit"},
		{"Twitterbot/1.0", "Twitterbot"},
		{"Slackbot-LinkExpanding 1.0 (+https://api.slack.com/robots)", "Slackbot"},
		{"WhatsApp/2.23.20.0", "WhatsApp"},
		{"Mozilla/5.0 (compatible; Discordbot/2.0; +https://discordapp.com)", "Discordbot"},
	}

	c := mustNew(t)
	for _, tt := range tests {
		got := c.Classify(tt.ua)
		if !got.Crawler {
			t.Fatalf("expected %q to be a crawler, got %s", tt.ua, got)
		}
		if got.BotName != tt.want {
			t.Fatalf("expected signature %q for %q, got %q", tt.want, tt.ua, got.BotName)
		}
	}
}

func TestNew_LoadsSignatureTable(t *testing.T) {
	c := mustNew(t)
	if c.SignatureCount() == 0 {
		t.Fatal("expected embedded signature table to be non-empty")
	}
}

func TestNewFromJSON_RejectsBadPattern(t *testing.T) {
	_, err := newFromJSON([]byte(`[{"pattern": "(", "name": "broken"}]`))
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func mustNew(t *testing.T) *Classifier {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}
