package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var ErrTokenRejected = errors.New("oauth token request rejected")

// Client caches a client-credentials bearer token and stamps it on outgoing requests.
type Client struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string

	headerLock    sync.Mutex
	headerValue   string
	headerExpires time.Time
}

func New(httpClient *http.Client, tokenURL string, clientID string, clientSecret string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Reset drops the cached token. Called after the API answers 401.
func (c *Client) Reset() {
	c.headerLock.Lock()
	c.headerValue = ""
	c.headerLock.Unlock()
}

func (c *Client) header(ctx context.Context) (string, error) {
	c.headerLock.Lock()
	defer c.headerLock.Unlock()

	now := time.Now()
	if c.headerValue != "" && now.Before(c.headerExpires) {
		return c.headerValue, nil
	}

	form := url.Values{
		"grant_type":    []string{"client_credentials"},
		"client_id":     []string{c.clientID},
		"client_secret": []string{c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header = http.Header{
		"Content-Type": []string{"application/x-www-form-urlencoded"},
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer resp.Body.Close()

	var token struct {
		Error       string `json:"error"`
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	err = jsoniter.NewDecoder(resp.Body).Decode(&token)
	if err != nil && err != io.EOF {
		return "", errors.WithStack(err)
	}
	if resp.StatusCode != http.StatusOK || token.Error != "" || token.AccessToken == "" {
		return "", errors.Wrapf(ErrTokenRejected, "status %d %s", resp.StatusCode, token.Error)
	}

	c.headerValue = fmt.Sprintf("Bearer %s", token.AccessToken)
	// renew a minute early
	c.headerExpires = now.Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)

	return c.headerValue, nil
}

func (c *Client) NewRequest(ctx context.Context, method string, urlStr string, body io.Reader) (*http.Request, error) {
	auth, err := c.header(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header = http.Header{
		"Authorization": []string{auth},
		"Content-Type":  []string{"application/json; encoding=utf-8"},
	}

	return req, nil
}
