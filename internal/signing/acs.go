package signing

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed request parameters for the TranslateGeneral action.
const (
	ACSAction           = "TranslateGeneral"
	ACSVersion          = "2018-10-12"
	ACSSignatureMethod  = "HMAC-SHA1"
	ACSSignatureVersion = "1.0"
)

// ACSSigner signs Alibaba Cloud RPC style requests.
type ACSSigner struct {
	now   func() time.Time
	nonce func() string
}

// NewACSSigner returns a signer using the wall clock and random UUID nonces.
func NewACSSigner() *ACSSigner {
	return &ACSSigner{now: time.Now, nonce: uuid.NewString}
}

// Params builds the unsigned parameter set for one translation request.
// Every call carries a fresh SignatureNonce and the current timestamp.
func (a *ACSSigner) Params(accessKeyID, text, from, to string) map[string]string {
	return map[string]string{
		"Action":           ACSAction,
		"Version":          ACSVersion,
		"Format":           "JSON",
		"AccessKeyId":      accessKeyID,
		"SignatureNonce":   a.nonce(),
		"Timestamp":        a.now().UTC().Format("2006-01-02T15:04:05Z"),
		"SignatureMethod":  ACSSignatureMethod,
		"SignatureVersion": ACSSignatureVersion,
		"FormatType":       "text",
		"Scene":            "general",
		"SourceLanguage":   from,
		"TargetLanguage":   to,
		"SourceText":       text,
	}
}

// CanonicalQuery returns the sorted, percent-encoded k=v pairs joined by &.
// A Signature entry is ignored.
func CanonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "Signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, PercentEncode(k)+"="+PercentEncode(params[k]))
	}
	return strings.Join(pairs, "&")
}

// StringToSign returns GET&%2F&enc(canonical query).
func (a *ACSSigner) StringToSign(params map[string]string) string {
	return "GET&" + PercentEncode("/") + "&" + PercentEncode(CanonicalQuery(params))
}

// Sign returns base64(HMAC-SHA1(secret+"&", StringToSign(params))).
func (a *ACSSigner) Sign(secret string, params map[string]string) string {
	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(a.StringToSign(params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignedQuery signs params and returns the final query string with the
// Signature parameter appended.
func (a *ACSSigner) SignedQuery(secret string, params map[string]string) string {
	signature := a.Sign(secret, params)
	return CanonicalQuery(params) + "&Signature=" + PercentEncode(signature)
}

// PercentEncode escapes everything outside the RFC 3986 unreserved set,
// with upper-case hex digits.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
