package signing

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcXYZ019-_.~", "abcXYZ019-_.~"},
		{"/", "%2F"},
		{" ", "%20"},
		{"*", "%2A"},
		{"a=b&c", "a%3Db%26c"},
		{"你好", "%E4%BD%A0%E5%A5%BD"},
		{"2025-10-11T08:00:00Z", "2025-10-11T08%3A00%3A00Z"},
	}

	for _, tt := range tests {
		if got := PercentEncode(tt.in); got != tt.want {
			t.Errorf("PercentEncode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParams(t *testing.T) {
	signer := NewACSSigner()
	params := signer.Params("LTAI-id", "hello", "en", "zh")

	want := map[string]string{
		"Action":           "TranslateGeneral",
		"Version":          "2018-10-12",
		"Format":           "JSON",
		"AccessKeyId":      "LTAI-id",
		"SignatureMethod":  "HMAC-SHA1",
		"SignatureVersion": "1.0",
		"FormatType":       "text",
		"Scene":            "general",
		"SourceLanguage":   "en",
		"TargetLanguage":   "zh",
		"SourceText":       "hello",
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%s] = %q, want %q", k, params[k], v)
		}
	}

	if params["SignatureNonce"] == "" {
		t.Error("Expected a SignatureNonce")
	}
	ts, err := time.Parse("2006-01-02T15:04:05Z", params["Timestamp"])
	if err != nil {
		t.Errorf("Timestamp %q is not whole-second UTC: %v", params["Timestamp"], err)
	}
	if time.Since(ts) > time.Minute {
		t.Errorf("Timestamp %q is not current", params["Timestamp"])
	}
}

func TestStringToSign(t *testing.T) {
	signer := NewACSSigner()
	params := map[string]string{
		"SourceText": "a b",
		"Action":     "TranslateGeneral",
		"Signature":  "ignored",
	}

	got := signer.StringToSign(params)
	want := "GET&%2F&" + PercentEncode("Action=TranslateGeneral&SourceText=a%20b")
	if got != want {
		t.Errorf("StringToSign = %q, want %q", got, want)
	}
}

func TestSignFreshPerCall(t *testing.T) {
	signer := NewACSSigner()
	secret := "testsecret"

	first := signer.Params("id", "hello", "en", "zh")
	second := signer.Params("id", "hello", "en", "zh")

	if first["SignatureNonce"] == second["SignatureNonce"] {
		t.Fatal("Expected a fresh nonce per call")
	}

	sig1 := signer.Sign(secret, first)
	sig2 := signer.Sign(secret, second)
	if sig1 == sig2 {
		t.Error("Expected different signatures for different nonces")
	}

	// Each signature verifies independently against the documented formula
	for _, tc := range []struct {
		params map[string]string
		sig    string
	}{{first, sig1}, {second, sig2}} {
		mac := hmac.New(sha1.New, []byte(secret+"&"))
		mac.Write([]byte("GET&%2F&" + PercentEncode(CanonicalQuery(tc.params))))
		want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
		if tc.sig != want {
			t.Errorf("Signature %q does not verify, recomputed %q", tc.sig, want)
		}
	}
}

func TestSignKnownVector(t *testing.T) {
	signer := &ACSSigner{
		now:   func() time.Time { return time.Date(2025, 10, 11, 8, 0, 0, 0, time.UTC) },
		nonce: func() string { return "fixed-nonce" },
	}
	params := signer.Params("id", "hello", "en", "zh")

	a := signer.Sign("secret", params)
	b := signer.Sign("secret", params)
	if a != b {
		t.Error("Signing identical parameters must be deterministic")
	}
	if signer.Sign("other", params) == a {
		t.Error("A different secret must change the signature")
	}
}

func TestSignedQuery(t *testing.T) {
	signer := NewACSSigner()
	params := signer.Params("id", "hello world", "en", "zh")
	query := signer.SignedQuery("secret", params)

	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("SignedQuery produced an unparsable query: %v", err)
	}
	if values.Get("SourceText") != "hello world" {
		t.Errorf("SourceText = %q", values.Get("SourceText"))
	}
	if values.Get("Signature") != signer.Sign("secret", params) {
		t.Error("Signature in query does not match Sign")
	}
	if strings.Contains(query, "+") {
		t.Error("Spaces must be encoded as %20, not +")
	}
}
