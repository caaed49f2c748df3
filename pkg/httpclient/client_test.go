package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "abc", r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var resp struct {
		OK bool `json:"ok"`
	}
	err := PostJSON(srv.URL, map[string]string{"a": "b"}, &resp, DefaultOptions().WithHeader("X-Request-ID", "abc"))
	require.NoError(t, err)
	assert.True(t, resp.OK)
}

func TestDoJSONRequest_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad"}`))
	}))
	defer srv.Close()

	err := GetJSON(srv.URL, nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.JSONEq(t, `{"error":"bad"}`, string(statusErr.Body))
}

func TestContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Wget/1.12", r.UserAgent())
		switch r.URL.Path {
		case "/file":
			w.Header().Set("Content-Type", "application/x-bittorrent")
		case "/nohead":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "video/mp4")
		case "/redirect":
			http.Redirect(w, r, "/file", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	assert.Equal(t, "application/x-bittorrent", ContentType(ctx, srv.URL+"/file"))
	assert.Equal(t, "video/mp4", ContentType(ctx, srv.URL+"/nohead"))
	assert.Equal(t, "application/x-bittorrent", ContentType(ctx, srv.URL+"/redirect"))
	assert.Equal(t, "", ContentType(ctx, srv.URL+"/missing"))
	assert.Equal(t, "", ContentType(ctx, "http://127.0.0.1:1/unreachable"))
}
