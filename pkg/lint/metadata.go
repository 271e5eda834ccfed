package lint

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultDocsBaseURL is the hosted documentation site.
const DefaultDocsBaseURL = "https://leaplint.dev/docs/rules"

var (
	docsMu      sync.RWMutex
	docsBaseURL = DefaultDocsBaseURL
)

// BuildDocURL constructs a documentation URL for a rule.
func BuildDocURL(ruleSetID, ruleName string) string {
	docsMu.RLock()
	defer docsMu.RUnlock()
	return fmt.Sprintf("%s/%s/%s", docsBaseURL, strings.ToLower(ruleSetID), strings.ToLower(ruleName))
}

// SetDocsBaseURL overrides the default documentation base URL.
// Useful for offline mode or custom documentation sites.
func SetDocsBaseURL(url string) {
	docsMu.Lock()
	defer docsMu.Unlock()
	docsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	SetDocsBaseURL(DefaultDocsBaseURL)
}
