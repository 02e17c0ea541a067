package html

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// sanitizeRichText strips unsafe markup from authored content before it is
// marked safe for templating. Values come from the form author, not the
// submitter, but still cross a trust boundary when forms are shared.
func sanitizeRichText(raw string) string {
	richTextPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "a", "code")
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		richTextPolicy = policy
	})
	return richTextPolicy.Sanitize(raw)
}
