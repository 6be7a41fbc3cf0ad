package esologs

import (
	"bytes"
	"context"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"esologs_check/cache"
	"esologs_check/config"
	"esologs_check/esologs/oauth"
	"esologs_check/share"
	"esologs_check/share/semaphore"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var bytBufPool = sync.Pool{
	New: func() interface{} {
		buf := new(bytes.Buffer)
		buf.Grow(16 * 1024)
		return buf
	},
}

// Client talks to the esologs.com v2 GraphQL API and implements parse.Collector.
type Client struct {
	apiURL     string
	httpClient *http.Client
	oauth      *oauth.Client
	sema       *semaphore.Semaphore

	maxRetries int
	retryDelay time.Duration
	workers    int

	csReport *cache.Storage
	csEvents *cache.Storage
}

func New(cfg config.ESOLogsConfig, cacheCfg config.CacheConfig) (*Client, error) {
	httpClient, err := share.NewHTTPClient(cfg.Timeout, cfg.Proxy)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	c := &Client{
		apiURL:     cfg.APIURL,
		httpClient: httpClient,
		oauth:      oauth.New(httpClient, cfg.TokenURL, cfg.ClientID, cfg.ClientSecret),
		sema:       semaphore.New(workers),
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelay,
		workers:    workers,
	}

	if cacheCfg.Directory != "" {
		sources := querySources()

		c.csReport, err = cache.NewStorage(filepath.Join(cacheCfg.Directory, "report"), cacheCfg.EventTTL, sources...)
		if err != nil {
			return nil, err
		}
		c.csEvents, err = cache.NewStorage(filepath.Join(cacheCfg.Directory, "events"), cacheCfg.EventTTL, sources...)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLErrors []graphQLError

func (e graphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ge := range e {
		msgs[i] = ge.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// CallGraphQL renders tmpl with tmplData, posts it and decodes the "data" member into respData.
// Failed calls are retried; a closed context is returned at once.
func (c *Client) CallGraphQL(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		err = c.callGraphQLInner(ctx, tmpl, tmplData, respData)

		if err == nil {
			break
		}
		if share.IsContextClosedError(err) {
			return err
		}
		zap.L().Warn("graphql call failed",
			zap.String("query", tmpl.Name()),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		if i+1 < c.maxRetries {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func (c *Client) callGraphQLInner(ctx context.Context, tmpl *template.Template, tmplData interface{}, respData interface{}) error {
	sb := strBufPool.Get().(*strings.Builder)
	defer strBufPool.Put(sb)

	sb.Reset()
	err := tmpl.Execute(sb, tmplData)
	if err != nil {
		return errors.WithStack(err)
	}

	queryData := struct {
		Query string `json:"query"`
	}{
		Query: sb.String(),
	}

	buf := bytBufPool.Get().(*bytes.Buffer)
	defer bytBufPool.Put(buf)

	buf.Reset()
	err = jsoniter.NewEncoder(buf).Encode(&queryData)
	if err != nil {
		return errors.WithStack(err)
	}

	err = c.sema.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.sema.Release()

	req, err := c.oauth.NewRequest(ctx, http.MethodPost, c.apiURL, buf)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.oauth.Reset()
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return errors.Errorf("esologs api: %s", resp.Status)
	}

	var body struct {
		Data   jsoniter.RawMessage `json:"data"`
		Errors graphQLErrors       `json:"errors"`
	}
	err = jsoniter.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(body.Errors) > 0 {
		return errors.WithStack(body.Errors)
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return errors.New("esologs api: empty data")
	}

	return errors.WithStack(jsoniter.Unmarshal(body.Data, respData))
}

func cacheKeyf(format string, args ...interface{}) hash.Hash {
	h := fnv.New128a()
	fmt.Fprintf(h, format, args...)
	return h
}
