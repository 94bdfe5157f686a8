package scrape

import (
	"net/http"
	"strings"

	"github.com/sells-group/jobscout-cli/internal/fetcher"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// DetectBlock checks a fetched page for anti-bot interstitials. Profile pages
// always carry the embedded data document, so its presence short-circuits
// the body checks.
func DetectBlock(page *fetcher.Page) (bool, BlockType) {
	if page == nil {
		return false, BlockNone
	}

	if page.StatusCode == http.StatusForbidden || page.StatusCode == http.StatusServiceUnavailable {
		if page.Header.Get("cf-ray") != "" || page.Header.Get("server") == "cloudflare" {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(page.Body))
	if strings.Contains(lower, nextDataID) {
		return false, BlockNone
	}

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge") {
		return true, BlockCloudflare
	}

	if strings.Contains(lower, "captcha") {
		return true, BlockCaptcha
	}

	if len(page.Body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `meta http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, BlockNone
}
