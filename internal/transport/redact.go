package transport

import (
	"net/url"
)

// secretParams are query parameters that must never reach a log line.
var secretParams = []string{"sign", "Signature", "AccessKeyId", "appid", "key", "q", "SourceText"}

// redact masks credentials and user text in a URL for logging.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparsable url>"
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "xxx")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
