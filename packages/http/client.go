package http

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

const (
	// UserAgent identifies this client to sopnet services.
	UserAgent = "sopnet/0.10"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client issues HTTP requests against sopnet services. All verbs return a
// Response, never an error: transport failures surface as StatusCode
// StatusTransportError with a diagnostic body, so callers branch on data
// rather than on error values.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	userPass       string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		validateSSL:  true,
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFollowRedirects enables transparent redirect following. The default is
// off: 3xx responses are returned to the caller as received.
func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// Close releases idle connections held by the client. The client must not be
// used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// SetAuth installs basic-auth credentials used by every subsequent request.
// The username must not contain a colon; the password may.
func (c *Client) SetAuth(username, password string) {
	c.userPass = username + ":" + password
}

// ClearAuth removes previously installed credentials.
func (c *Client) ClearAuth() {
	c.userPass = ""
}

// Get performs a GET request against url.
func (c *Client) Get(url string) *Response {
	return c.do(http.MethodGet, url, "", nil)
}

// Post performs a POST request carrying data with the given content type.
// data may contain arbitrary bytes, including NUL; its length alone decides
// how much is sent.
func (c *Client) Post(url, contentType string, data []byte) *Response {
	return c.do(http.MethodPost, url, contentType, data)
}

// Put performs a PUT request. The payload is streamed from an internal
// cursor that hands the transport successive chunks until it is exhausted,
// with the total size declared up front.
func (c *Client) Put(url, contentType string, data []byte) *Response {
	return c.do(http.MethodPut, url, contentType, data)
}

// Delete performs a DELETE request against url.
func (c *Client) Delete(url string) *Response {
	return c.do(http.MethodDelete, url, "", nil)
}

func (c *Client) do(method, url, contentType string, data []byte) *Response {
	resp := newResponse()

	if err := ValidateURL(url); err != nil {
		resp.fail(err)
		return resp
	}

	httpReq, err := c.buildRequest(method, url, contentType, data)
	if err != nil {
		resp.fail(err)
		return resp
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	resp.Duration = time.Since(start)

	if err != nil {
		resp.fail(err)
		return resp
	}
	defer httpResp.Body.Close()

	if _, err := io.Copy(resp, httpResp.Body); err != nil {
		resp.fail(err)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	collectHeaders(resp, httpResp)

	return resp
}

func (c *Client) buildRequest(method, url, contentType string, data []byte) (*http.Request, error) {
	var body io.Reader
	if len(data) > 0 {
		if method == http.MethodPut {
			body = newUploadState(data)
		} else {
			body = bytes.NewReader(data)
		}
	}

	httpReq, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		httpReq.ContentLength = int64(len(data))
		httpReq.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}

	httpReq.Header.Set("User-Agent", UserAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.userPass != "" {
		username, password, _ := strings.Cut(c.userPass, ":")
		httpReq.SetBasicAuth(username, password)
	}

	return httpReq, nil
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrBadURL)
	}

	return nil
}

// collectHeaders replays the wire headers of httpResp through the line
// parser, starting with the status line. Values recorded later win over
// earlier ones for the same name.
func collectHeaders(resp *Response, httpResp *http.Response) {
	resp.addHeaderLine(httpResp.Proto + " " + httpResp.Status)

	for name, values := range httpResp.Header {
		for _, value := range values {
			resp.addHeaderLine(name + ": " + value)
		}
	}
}
