package django

import (
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catsop/sophttp/packages/ptree"
)

func TestGetTree_OK(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slices": [1, 2], "ok": true}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	tree, err := client.GetTree(server.URL)

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.True(t, tree.Has("slices"))
	assert.Equal(t, "true", tree.Value("ok"))
	assert.False(t, CheckError(tree))
}

func TestGetTree_Non200BecomesErrorTree(t *testing.T) {
	logs := captureLogs(t)

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "worker crashed"}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	url := server.URL + "/solutions"
	tree, err := client.GetTree(url)

	require.NoError(t, err)
	require.NotNil(t, tree)
	// The remote's own body is discarded in favor of the substitute tree.
	assert.False(t, tree.Has("detail"))
	assert.Equal(t, fmt.Sprintf("Status 500 when getting %s", url), tree.Value("error"))
	assert.True(t, CheckError(tree))

	messages := loggedMessages(logs)
	require.NotEmpty(t, messages)
	assert.Equal(t, fmt.Sprintf("When trying url [%s], received non-OK code 500", url), messages[0])
}

func TestGetTree_TransportFailure(t *testing.T) {
	captureLogs(t)

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil)
	defer client.Close()

	tree, err := client.GetTree(url)

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, fmt.Sprintf("Status -1 when getting %s", url), tree.Value("error"))
	assert.True(t, CheckError(tree))
}

func TestGetTree_InvalidJSON(t *testing.T) {
	logs := captureLogs(t)

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	tree, err := client.GetTree(server.URL)

	assert.Nil(t, tree)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ptree.ErrInvalidJSON))

	messages := loggedMessages(logs)
	require.Len(t, messages, 2)
	assert.Equal(t, fmt.Sprintf("error reading result of URL: %s", server.URL), messages[0])
	assert.Equal(t, "response is: <html>not json</html>", messages[1])
}

func TestPostTree(t *testing.T) {
	form := []byte("hash=a3f&count=2")

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, FormContentType, r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, form, body)
		_, _ = w.Write([]byte(`{"id": 5}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	tree, err := client.PostTree(server.URL, form)

	require.NoError(t, err)
	assert.Equal(t, "5", tree.Value("id"))
}

func TestNewClient_NilWrapsDefault(t *testing.T) {
	client := NewClient(nil)
	defer client.Close()

	assert.NotNil(t, client.HTTP())
}
