package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"codeberg.org/snonux/dowel/internal/apperr"
	"codeberg.org/snonux/dowel/internal/transport"
)

// baiduSuccess is the one error_code Baidu documents as success.
const baiduSuccess = "52000"

type baiduResponse struct {
	ErrorCode   json.RawMessage `json:"error_code"`
	ErrorMsg    string          `json:"error_msg"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

func (r baiduResponse) code() string {
	return strings.Trim(string(r.ErrorCode), `"`)
}

func translateBaidu(ctx context.Context, tp transport.Port, text, from, to, endpoint, appID, key string) (Result, error) {
	query := md5Signer.Query(appID, key, text, from, to)
	url := endpoint + "?" + query.Encode()

	resp, err := tp.Request(ctx, transport.Request{Method: http.MethodGet, URL: url})
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindTransport, "baidu", err)
	}
	var body baiduResponse
	decodeErr := json.Unmarshal(resp.Body, &body)

	if !resp.OK() {
		e := statusError("baidu", resp.Status)
		if decodeErr == nil {
			e.Code = body.code()
			e.Message = body.ErrorMsg
		}
		return Result{}, e
	}
	if decodeErr != nil {
		return Result{}, &apperr.Error{Kind: apperr.KindResponseShape, Provider: "baidu", Err: decodeErr}
	}
	if code := body.code(); code != "" && code != "null" && code != baiduSuccess {
		return Result{}, &apperr.Error{
			Kind:     apperr.KindProviderLogical,
			Provider: "baidu",
			Code:     code,
			Message:  body.ErrorMsg,
		}
	}
	if body.TransResult == nil {
		return Result{}, apperr.New(apperr.KindResponseShape, "baidu", "response has no trans_result")
	}

	lines := make([]string, 0, len(body.TransResult))
	for _, item := range body.TransResult {
		lines = append(lines, item.Dst)
	}
	return Result{Original: text, Translated: strings.Join(lines, "\n"), From: from, To: to}, nil
}
