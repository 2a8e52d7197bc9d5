package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/transport"
)

type aliyunResponse struct {
	Code    json.RawMessage `json:"Code"`
	Message string          `json:"Message"`
	Data    *struct {
		Translated *string `json:"Translated"`
	} `json:"Data"`
}

// code returns Code as text whether it arrived as a number or a string.
func (r aliyunResponse) code() string {
	return strings.Trim(string(r.Code), `"`)
}

func translateAliyun(ctx context.Context, tp transport.Port, text, from, to, endpoint, id, secret string) (Result, error) {
	params := acsSigner.Params(id, text, from, to)
	url := endpoint + "?" + acsSigner.SignedQuery(secret, params)

	resp, err := tp.Request(ctx, transport.Request{Method: http.MethodGet, URL: url})
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindTransport, "aliyun", err)
	}

	var body aliyunResponse
	decodeErr := json.Unmarshal(resp.Body, &body)

	if !resp.OK() {
		e := statusError("aliyun", resp.Status)
		if decodeErr == nil {
			e.Code = body.code()
			e.Message = body.Message
		}
		return Result{}, e
	}
	if decodeErr != nil {
		return Result{}, &apperr.Error{Kind: apperr.KindResponseShape, Provider: "aliyun", Err: decodeErr}
	}
	if body.code() != "200" {
		return Result{}, &apperr.Error{
			Kind:     apperr.KindProviderLogical,
			Provider: "aliyun",
			Code:     body.code(),
			Message:  body.Message,
		}
	}
	if body.Data == nil || body.Data.Translated == nil {
		return Result{}, apperr.New(apperr.KindResponseShape, "aliyun", "response has no Data.Translated")
	}

	return Result{Original: text, Translated: *body.Data.Translated, From: from, To: to}, nil
}

// statusError classifies a non-2xx answer.
func statusError(provider string, status int) *apperr.Error {
	kind := apperr.KindTransport
	if status == http.StatusUnauthorized {
		kind = apperr.KindAuth
	}
	return &apperr.Error{Kind: kind, Provider: provider, Status: status}
}
