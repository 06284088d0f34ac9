package shopify

import "strings"

// NextPageURL extracts the rel="next" URL from a Link response header.
// The header is a comma-separated list of `<url>; rel="value"` segments, e.g.
//
//	<https://shop/admin/api/2023-07/orders.json?limit=250&page_info=xyz>; rel="next"
//
// Returns "" when the header is absent or carries no next segment, which is
// how the pager detects the final page.
func NextPageURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.SplitN(part, ";", 2)
		if len(section) < 2 {
			continue
		}
		urlPart := strings.TrimSpace(section[0])
		relPart := strings.TrimSpace(section[1])
		if relPart != `rel="next"` {
			continue
		}
		if len(urlPart) >= 2 && urlPart[0] == '<' && urlPart[len(urlPart)-1] == '>' {
			return urlPart[1 : len(urlPart)-1]
		}
	}
	return ""
}
