package httpmiddleware

import (
	"net/http"
	"strings"
)

// StripPrefix removes a leading path prefix, matching whole segments only, so
// that the API can sit behind a reverse proxy mount such as "/shop".
func StripPrefix(prefix string) func(http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	return func(next http.Handler) http.Handler {
		if prefix == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rest, ok := strings.CutPrefix(r.URL.Path, prefix)
			if ok && (rest == "" || rest[0] == '/') {
				if rest == "" {
					rest = "/"
				}
				r.URL.Path = rest
				r.URL.RawPath = ""
			}
			next.ServeHTTP(w, r)
		})
	}
}
