// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Resty adapts a resty client into an HTTPDoer. The client's own
// settings (base headers, auth, proxies, middleware) apply to every
// request. Response parsing is disabled so the body reaches the
// dispatcher unread.
func Resty(c *resty.Client) HTTPDoer {
	if c == nil {
		panic("asynchttp/transport: nil resty client")
	}
	return restyDoer{client: c}
}

// NewResty returns an HTTP transport backed by a new resty client with
// the given overall timeout. Redirects are not followed. If logger is
// not nil, resty's own warnings and errors are sent to it.
func NewResty(timeout time.Duration, logger *zap.Logger) *HTTP {
	c := resty.New()
	c.SetTimeout(timeout)
	if logger != nil {
		c.SetLogger(logger.Sugar())
	}
	c.SetRedirectPolicy(resty.RedirectPolicyFunc(noRedirect))
	return &HTTP{Doer: Resty(c)}
}

type restyDoer struct {
	client *resty.Client
}

func (d restyDoer) Do(r *http.Request) (*http.Response, error) {
	req := d.client.R().
		SetContext(r.Context()).
		SetDoNotParseResponse(true)
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, err
		}
		req.SetBody(b)
	}
	resp, err := req.Execute(r.Method, r.URL.String())
	if err != nil {
		return nil, err
	}
	return resp.RawResponse, nil
}

func (d restyDoer) CloseIdleConnections() {
	d.client.GetClient().CloseIdleConnections()
}
