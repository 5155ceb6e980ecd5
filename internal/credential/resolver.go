// Package credential resolves the API key for the remote model from an
// ordered list of sources.
package credential

import "strings"

// Embedded is the built-in fallback key. Set it at build time with
//
//	-ldflags "-X github.com/rty-renty/SuanMing/internal/credential.Embedded=..."
var Embedded = "在这里填入你的 API Key"

// placeholderMarkers flag values that were never filled in.
var placeholderMarkers = []string{
	"在这里填入",
	"your_api_key",
	"your-api-key",
	"changeme",
	"<api_key>",
}

// Source yields a candidate key. An empty string means "not set".
type Source func() string

// Static returns a source that always yields v.
func Static(v string) Source {
	return func() string { return v }
}

// Chain tries each source in order and returns the first usable key.
type Chain struct {
	sources []Source
}

func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Resolve implements ports.CredentialResolver.
func (c *Chain) Resolve() (string, bool) {
	for _, src := range c.sources {
		key := strings.TrimSpace(src())
		if Usable(key) {
			return key, true
		}
	}
	return "", false
}

// Usable reports whether key is non-empty and not a placeholder.
func Usable(key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}
