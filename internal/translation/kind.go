package translation

import (
	"context"
	"sort"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/signing"
	"codeberg.org/snonux/dowel/internal/transport"
)

// Kind is a supported translation service. The set is closed.
type Kind int

const (
	// KindAliyun is Alibaba Cloud machine translation, HMAC-SHA1 signed.
	KindAliyun Kind = iota + 1
	// KindBaidu is Baidu translate, salted MD5 signed.
	KindBaidu
)

type kindInfo struct {
	name     string
	endpoint string
}

var kinds = map[Kind]kindInfo{
	KindAliyun: {name: "aliyun", endpoint: "https://mt.aliyuncs.com"},
	KindBaidu:  {name: "baidu", endpoint: "https://fanyi-api.baidu.com/api/trans/vip/translate"},
}

var (
	acsSigner = signing.NewACSSigner()
	md5Signer = signing.MD5Signer{SaltLength: signing.DefaultSaltLength}
)

// Result is a normalized translation.
type Result struct {
	Original   string
	Translated string
	From       string
	To         string
}

// Lookup maps an account name to its Kind.
func Lookup(name string) (Kind, bool) {
	for k, info := range kinds {
		if info.name == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds returns all supported kinds ordered by name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// String returns the account name the kind is registered under.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// DefaultEndpoint is used when an account has no api override.
func (k Kind) DefaultEndpoint() string {
	return kinds[k].endpoint
}

// TranslateWithKey translates text with explicit credentials. It does not
// touch the configuration; id is the access key id (aliyun) or app id
// (baidu), secret the signing secret or key.
func (k Kind) TranslateWithKey(ctx context.Context, tp transport.Port, text, from, to, endpoint, id, secret string) (Result, error) {
	if endpoint == "" {
		endpoint = k.DefaultEndpoint()
	}
	switch k {
	case KindAliyun:
		return translateAliyun(ctx, tp, text, from, to, endpoint, id, secret)
	case KindBaidu:
		return translateBaidu(ctx, tp, text, from, to, endpoint, id, secret)
	default:
		return Result{}, apperr.ConfigurationMissing(k.String(), "unknown translation service")
	}
}
