package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/test", r.URL.Path)
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Get(server.URL + "/test")

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Contains(t, resp.BodyString(), "hello")
	assert.Equal(t, HeaderPresent, resp.Headers["HTTP/1.1 200 OK"])
}

func TestClient_GetServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	// Non-2xx is a completed exchange, not a failure.
	resp := client.Get(server.URL)

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "oops", resp.BodyString())
	assert.False(t, resp.IsTransportError())
}

func TestClient_Post(t *testing.T) {
	payload := []byte("left=10&right=20")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 123}`))
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Post(server.URL, "application/x-www-form-urlencoded", payload)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), "123")
}

func TestClient_PostBinaryBody(t *testing.T) {
	// Payload length decides what is sent; NUL bytes must survive.
	payload := []byte("head\x00middle\x00tail")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, body)
		assert.Equal(t, int64(len(payload)), r.ContentLength)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Post(server.URL, "application/octet-stream", payload)

	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_Put(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 512)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Equal(t, int64(len(payload)), r.ContentLength)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Put(server.URL, "application/octet-stream", payload)

	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Delete(server.URL + "/segments/42")

	assert.Equal(t, 204, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestClient_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "catmaid", username)
		assert.Equal(t, "se:cret", password)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	// Passwords may contain colons; the username may not.
	client.SetAuth("catmaid", "se:cret")
	resp := client.Get(server.URL)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_ClearAuth(t *testing.T) {
	var sawAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = append(sawAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	client.SetAuth("user", "pass")
	client.Get(server.URL)
	client.ClearAuth()
	client.Get(server.URL)

	require.Len(t, sawAuth, 2)
	assert.NotEmpty(t, sawAuth[0])
	assert.Empty(t, sawAuth[1])
}

func TestClient_DuplicateHeadersLastWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("X-Slice", "first")
		w.Header().Add("X-Slice", "second")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Get(server.URL)

	assert.Equal(t, "second", resp.Headers["X-Slice"])
}

func TestClient_RedirectNotFollowedByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("final"))
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Get(server.URL + "/redirect")

	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/final", resp.Headers["Location"])
}

func TestClient_FollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("final"))
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(WithFollowRedirects(true))
	defer client.Close()

	resp := client.Get(server.URL + "/redirect")

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "final", resp.BodyString())
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Get(url)

	assert.Equal(t, StatusTransportError, resp.StatusCode)
	assert.True(t, resp.IsTransportError())
	assert.True(t, strings.HasPrefix(resp.BodyString(), TransportFailurePrefix))
	assert.Contains(t, resp.BodyString(), "Couldn't connect to server")
	assert.Contains(t, resp.BodyString(), " DETAIL: ")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithTimeout(50 * time.Millisecond))
	defer client.Close()

	resp := client.Get(server.URL)

	assert.Equal(t, StatusTransportError, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), "Timeout was reached")
}

func TestClient_UnsupportedScheme(t *testing.T) {
	client := NewClient()
	defer client.Close()

	resp := client.Get("ftp://example.com/stack")

	assert.Equal(t, StatusTransportError, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), "Unsupported protocol")
}

func TestClient_MissingHost(t *testing.T) {
	client := NewClient()
	defer client.Close()

	resp := client.Get("http://")

	assert.Equal(t, StatusTransportError, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), "URL using bad/illegal format or missing URL")
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("http://example.com/path"))
	assert.NoError(t, ValidateURL("https://example.com"))
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("http://"))
	assert.Error(t, ValidateURL("://bad"))
}
