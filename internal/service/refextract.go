package service

import (
	"regexp"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// RefExtractor scans freeform HTML content for image delivery URLs and
// pulls out the embedded image identifiers.
type RefExtractor struct {
	pattern *regexp.Regexp
}

// NewRefExtractor builds an extractor for the given delivery host. The
// image id is the path segment following the account hash:
// https://<host>/<account-hash>/<image-id>/<variant>.
func NewRefExtractor(deliveryHost string) *RefExtractor {
	pattern := regexp.MustCompile(
		`https://` + regexp.QuoteMeta(deliveryHost) + `/[^/]+/([^/"'\s)]+)/[^"'\s)]+`)
	return &RefExtractor{pattern: pattern}
}

// Extract returns one reference per distinct image id found in content,
// keeping the first URL seen for each id. Content without delivery URLs
// yields an empty result; extraction never fails.
func (e *RefExtractor) Extract(content string) []domain.ImageReference {
	matches := e.pattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	var refs []domain.ImageReference
	for _, m := range matches {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, domain.ImageReference{ImageID: id, ImageURL: m[0]})
	}
	return refs
}
