package signing

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"net/url"
)

// DefaultSaltLength is the number of digits in a Baidu request salt.
const DefaultSaltLength = 16

// MD5Signer signs Baidu translate requests.
type MD5Signer struct {
	SaltLength int
}

// Salt returns n random decimal digits. n <= 0 uses DefaultSaltLength.
func Salt(n int) string {
	if n <= 0 {
		n = DefaultSaltLength
	}
	digits := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(digits) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("signing: crypto/rand failed: " + err.Error())
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256
			if b >= 250 {
				continue
			}
			digits = append(digits, '0'+b%10)
			if len(digits) == n {
				break
			}
		}
	}
	return string(digits)
}

// Sign returns lower-hex MD5(appID + text + salt + key).
func (MD5Signer) Sign(appID, text, salt, key string) string {
	sum := md5.Sum([]byte(appID + text + salt + key))
	return hex.EncodeToString(sum[:])
}

// Query builds the signed query parameters q, from, to, appid, salt and
// sign. A new salt is drawn for every call.
func (m MD5Signer) Query(appID, key, text, from, to string) url.Values {
	salt := Salt(m.SaltLength)
	return url.Values{
		"q":     {text},
		"from":  {from},
		"to":    {to},
		"appid": {appID},
		"salt":  {salt},
		"sign":  {m.Sign(appID, text, salt, key)},
	}
}
