// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the asynchttp command line tool.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gogama/asynchttp"
	"github.com/gogama/asynchttp/internal/config"
	"github.com/gogama/asynchttp/internal/logger"
	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/sink"
	"github.com/gogama/asynchttp/status"
	"github.com/gogama/asynchttp/transient"
	"github.com/gogama/asynchttp/transport"
)

// ErrAbandoned is returned when the request ended without a result,
// because the overall timeout expired or the command was interrupted.
var ErrAbandoned = errors.New("request abandoned")

const example = `  asynchttp get https://httpbin.org/get --param q=golang
  asynchttp post https://httpbin.org/post --param name=Leonardo --param pass=test
  asynchttp put https://httpbin.org/put --data '{"a":1}' --content-type application/json --json
  ASYNCHTTP_READ_TIMEOUT=5s asynchttp delete https://httpbin.org/delete`

// NewCommand returns the root command. Response bodies are written to
// out; logs and failure details to errOut.
func NewCommand(out, errOut io.Writer) *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           "asynchttp",
		Short:         "Send one HTTP request through the asynchronous client",
		Example:       example,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	config.RegisterFlags(root.PersistentFlags())

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		root.AddCommand(newVerbCommand(method, &configFile))
	}
	return root
}

type requestFlags struct {
	params      []string
	headers     []string
	contentType string
	data        string
	json        bool
}

func newVerbCommand(method string, configFile *string) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, method, args[0], &f)
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.params, "param", "p", nil, "form parameter key=value (repeatable)")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "request header key=value (repeatable)")
	flags.StringVar(&f.contentType, "content-type", "", "Content-Type header")
	if method != http.MethodGet {
		flags.StringVarP(&f.data, "data", "d", "", "raw request body, sent instead of the parameters")
	}
	flags.BoolVar(&f.json, "json", false, "decode the response as a JSON object or array")
	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, cfg *config.Config, method, url string, f *requestFlags) error {
	log := logger.New(cfg.LogLevel, errOut)
	defer func() { _ = log.Sync() }()

	opts, err := f.options()
	if err != nil {
		return err
	}
	tr, err := newTransport(cfg, log)
	if err != nil {
		return err
	}
	client := &asynchttp.Client{
		Transport: tr,
		Logger:    log,
		RawParams: cfg.RawParams,
	}
	defer client.CloseIdleConnections()

	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	loop := sink.NewLoop()
	res := &result{out: out, errOut: errOut, loop: loop}
	pipelineOpts := []asynchttp.PipelineOption{
		asynchttp.WithSink(loop),
		asynchttp.WithStatusPolicy(status.Threshold(cfg.StatusThreshold)),
	}
	var d asynchttp.Dispatcher
	if f.json {
		d = asynchttp.NewJSONPipeline(res.jsonCallback(), pipelineOpts...)
	} else {
		d = asynchttp.NewBytesPipeline(res.bytesCallback(), pipelineOpts...)
	}

	if err = send(ctx, client, method, url, d, opts); err != nil {
		return err
	}
	if err = loop.Run(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAbandoned, err)
	}
	if !res.terminal {
		return ErrAbandoned
	}
	if res.err != nil {
		log.Debug("request failed", zap.Stringer("category", transient.Categorize(res.err)))
		return res.err
	}
	return nil
}

func send(ctx context.Context, x asynchttp.Executor, method, url string, d asynchttp.Dispatcher, opts []asynchttp.Option) error {
	switch method {
	case http.MethodGet:
		return x.Get(ctx, url, d, opts...)
	case http.MethodPost:
		return x.Post(ctx, url, d, opts...)
	case http.MethodPut:
		return x.Put(ctx, url, d, opts...)
	case http.MethodDelete:
		return x.Delete(ctx, url, d, opts...)
	default:
		return fmt.Errorf("unsupported method %q", method)
	}
}

func newTransport(cfg *config.Config, log *zap.Logger) (transport.Opener, error) {
	if cfg.Resty {
		return transport.NewResty(cfg.Timeout, log), nil
	}
	opts := []transport.Option{
		transport.WithConnectTimeout(cfg.ConnectTimeout),
		transport.WithReadTimeout(cfg.ReadTimeout),
		transport.WithLogger(log),
	}
	if cfg.DisableHTTP2 {
		opts = append(opts, transport.WithoutHTTP2())
	}
	if cfg.ThrottleRPS > 0 {
		opts = append(opts, transport.WithThrottle(cfg.ThrottleRPS, cfg.ThrottleBurst))
	}
	return transport.New(opts...)
}

func (f *requestFlags) options() ([]asynchttp.Option, error) {
	var opts []asynchttp.Option
	if len(f.params) > 0 {
		params := &request.Params{}
		for _, kv := range f.params {
			k, v, err := splitPair(kv)
			if err != nil {
				return nil, fmt.Errorf("--param: %w", err)
			}
			params.Put(k, v)
		}
		opts = append(opts, asynchttp.WithParams(params))
	}
	for _, kv := range f.headers {
		k, v, err := splitPair(kv)
		if err != nil {
			return nil, fmt.Errorf("--header: %w", err)
		}
		opts = append(opts, asynchttp.WithHeader(k, v))
	}
	if f.contentType != "" {
		opts = append(opts, asynchttp.ContentType(f.contentType))
	}
	if f.data != "" {
		opts = append(opts, asynchttp.WithBody(f.contentType, f.data))
	}
	return opts, nil
}

func splitPair(kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", kv)
	}
	return k, v, nil
}

// result collects the outcome of the request. Its callbacks all run on
// the goroutine running the loop.
type result struct {
	out, errOut io.Writer
	loop        *sink.Loop
	terminal    bool
	err         error
}

func (r *result) bytesCallback() asynchttp.Callback[[]byte] {
	return &asynchttp.Funcs[[]byte]{
		Success: func(_ int, body []byte) {
			r.terminal = true
			_, _ = r.out.Write(body)
		},
		Error: func(err error, body []byte) {
			r.terminal = true
			r.err = err
			if len(body) > 0 {
				_, _ = r.errOut.Write(body)
				_, _ = io.WriteString(r.errOut, "\n")
			}
		},
		Finish: r.loop.Close,
	}
}

func (r *result) jsonCallback() asynchttp.Callback[asynchttp.JSONValue] {
	return &asynchttp.JSONFuncs{
		Object: func(_ int, body map[string]interface{}) {
			r.terminal = true
			r.printJSON(r.out, body)
		},
		Array: func(_ int, body []interface{}) {
			r.terminal = true
			r.printJSON(r.out, body)
		},
		Error: func(err error, body asynchttp.JSONValue) {
			r.terminal = true
			r.err = err
			switch {
			case body.IsObject():
				r.printJSON(r.errOut, body.Object)
			case body.IsArray():
				r.printJSON(r.errOut, body.Array)
			}
		},
		Finish: r.loop.Close,
	}
}

func (r *result) printJSON(w io.Writer, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.err = err
		return
	}
	_, _ = w.Write(append(b, '\n'))
}
