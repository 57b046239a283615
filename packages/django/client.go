package django

import (
	"fmt"

	"github.com/catsop/sophttp/packages/http"
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/ptree"
)

// FormContentType is the content type used for PostTree payloads.
const FormContentType = "application/x-www-form-urlencoded"

// Client fetches JSON documents from a Django backend. Like the underlying
// HTTP client it is not safe for concurrent use.
type Client struct {
	hc *http.Client
}

// NewClient wraps hc. A nil hc gets a default HTTP client.
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.NewClient()
	}
	return &Client{hc: hc}
}

// HTTP exposes the wrapped client, for credential management.
func (c *Client) HTTP() *http.Client {
	return c.hc
}

// Close releases the wrapped client's connections.
func (c *Client) Close() {
	c.hc.Close()
}

// GetTree fetches url and parses the response body into a property tree.
//
// A completed exchange with a non-OK status (including transport failures,
// which report status -1) yields the substitute tree
// {"error": "Status <code> when getting <url>"} and no Go error: the
// remote's JSON error body, if any, is discarded. A 200 whose body fails to
// parse is logged and returns the parse error.
func (c *Client) GetTree(url string) (*ptree.Tree, error) {
	return c.parseTree(c.hc.Get(url), url)
}

// PostTree sends form-encoded data to url and parses the response like
// GetTree.
func (c *Client) PostTree(url string, data []byte) (*ptree.Tree, error) {
	return c.parseTree(c.hc.Post(url, FormContentType, data), url)
}

func (c *Client) parseTree(resp *http.Response, url string) (*ptree.Tree, error) {
	if resp.StatusCode != 200 {
		logging.L().Errorf("When trying url [%s], received non-OK code %d", url, resp.StatusCode)
		return ptree.ErrorTree(fmt.Sprintf("Status %d when getting %s", resp.StatusCode, url)), nil
	}

	tree, err := ptree.Parse(resp.Body)
	if err != nil {
		logging.L().Errorf("error reading result of URL: %s", url)
		logging.L().Errorf("response is: %s", resp.Body)
		return nil, err
	}

	return tree, nil
}
