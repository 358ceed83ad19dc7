// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogama/httpop"
	"github.com/gogama/httpop/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *int32) {
	var flaky int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hello":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("hello"))
		case "/echo":
			w.Header().Set("X-Got-Agent", r.UserAgent())
			w.Header().Set("X-Got-Custom", r.Header.Get("X-Custom"))
			_, _ = io.Copy(w, r.Body)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/flaky":
			if atomic.AddInt32(&flaky, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("recovered"))
		case "/slow":
			select {
			case <-time.After(5 * time.Second):
			case <-r.Context().Done():
			}
		}
	}))
	t.Cleanup(server.Close)
	return server, &flaky
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCommands(t *testing.T) {
	server, flaky := newTestServer(t)

	t.Run("get", func(t *testing.T) {
		stdout, _, err := execute(t, "get", "--body", server.URL+"/hello")
		require.NoError(t, err)
		assert.Contains(t, stdout, "GET "+server.URL+"/hello 200 Succeeded")
		assert.Contains(t, stdout, "hello\n")
	})
	t.Run("head", func(t *testing.T) {
		stdout, _, err := execute(t, "head", server.URL+"/hello", server.URL+"/missing")
		assert.EqualError(t, err, "1 of 2 requests did not succeed")
		assert.Contains(t, stdout, "HEAD "+server.URL+"/hello 200 Succeeded")
		assert.Contains(t, stdout, "HEAD "+server.URL+"/missing 404 Failed")
		assert.Contains(t, stdout, "error: ")
	})
	t.Run("post", func(t *testing.T) {
		stdout, _, err := execute(t, "post", "--body", "-H", "X-Custom: yes", "-d", `{"a":1}`, server.URL+"/echo")
		require.NoError(t, err)
		assert.Contains(t, stdout, "POST "+server.URL+"/echo 200 Succeeded")
		assert.Contains(t, stdout, `{"a":1}`)
	})
	t.Run("retries", func(t *testing.T) {
		atomic.StoreInt32(flaky, 0)
		stdout, _, err := execute(t, "get", "--retries", "2", "--body", server.URL+"/flaky")
		require.NoError(t, err)
		assert.Contains(t, stdout, "200 Succeeded")
		assert.Contains(t, stdout, "recovered")
		assert.Equal(t, int32(2), atomic.LoadInt32(flaky))
	})
	t.Run("no retries", func(t *testing.T) {
		atomic.StoreInt32(flaky, 0)
		stdout, _, err := execute(t, "get", server.URL+"/flaky")
		assert.Error(t, err)
		assert.Contains(t, stdout, "503 Failed")
	})
	t.Run("hedge", func(t *testing.T) {
		stdout, _, err := execute(t, "get", "--hedge", "10ms", server.URL+"/hello")
		require.NoError(t, err)
		assert.Contains(t, stdout, "200 Succeeded")
	})
	t.Run("timeout", func(t *testing.T) {
		stdout, _, err := execute(t, "get", "--timeout", "20ms", server.URL+"/slow")
		assert.Error(t, err)
		assert.Contains(t, stdout, "Failed")
		assert.Contains(t, stdout, "TransportError")
	})
	t.Run("bad flag values", func(t *testing.T) {
		_, _, err := execute(t, "get", "--timeout", "soon", server.URL)
		assert.ErrorContains(t, err, "--timeout")
		_, _, err = execute(t, "get", "--hedge", "later", server.URL)
		assert.ErrorContains(t, err, "--hedge")
		_, _, err = execute(t, "get", "-H", "no colon", server.URL)
		assert.ErrorContains(t, err, "invalid header")
		_, _, err = execute(t, "get", "--retries", "1", "--hedge", "1s", server.URL)
		assert.ErrorContains(t, err, "cannot both")
	})
	t.Run("missing url", func(t *testing.T) {
		_, _, err := execute(t, "get")
		assert.Error(t, err)
	})
	t.Run("config with metrics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "httpop.yaml")
		require.NoError(t, os.WriteFile(path, []byte("user_agent: cli-test\nmetrics: true\nlog:\n  format: json\n"), 0o600))
		stdout, stderr, err := execute(t, "--config", path, "get", server.URL+"/hello")
		require.NoError(t, err)
		assert.Contains(t, stdout, "200 Succeeded")
		assert.Contains(t, stderr, "# TYPE httpop_operations_total counter")
		assert.Contains(t, stderr, `outcome="succeeded"} 1`)
	})
	t.Run("config with trace", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "httpop.yaml")
		require.NoError(t, os.WriteFile(path, []byte("trace: true\n"), 0o600))
		_, stderr, err := execute(t, "--config", path, "get", server.URL+"/hello")
		require.NoError(t, err)
		assert.Contains(t, stderr, `"Name": "HTTP GET"`)
	})
}

func TestBuildHeader(t *testing.T) {
	h, err := buildHeader(map[string]string{"accept": "text/plain", "X-A": "1"}, []string{"X-A: 2", "X-B:3"})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", h.Get("Accept"))
	assert.Equal(t, "2", h.Get("X-A"))
	assert.Equal(t, "3", h.Get("X-B"))

	_, err = buildHeader(nil, []string{": value"})
	assert.Error(t, err)
}

func TestNewStrategy(t *testing.T) {
	server, _ := newTestServer(t)
	newOp := func() *httpop.Operation {
		return &httpop.Operation{Hooks: &httpop.RequestHooks{URL: server.URL + "/hello"}}
	}

	for name, cfg := range map[string]*config.Config{
		"single": config.Default(),
		"retry":  {Retry: config.RetryConfig{Attempts: 1}},
		"hedge":  {Hedge: config.HedgeConfig{Delay: time.Second, MaxRacers: 2}},
	} {
		t.Run(name, func(t *testing.T) {
			op, err := newStrategy(cfg)(context.Background(), newOp)
			require.NoError(t, err)
			assert.Equal(t, httpop.Succeeded, op.State())
		})
	}
}

func TestJob(t *testing.T) {
	t.Run("cancel before start", func(t *testing.T) {
		called := false
		j := newJob("u", nil, func(context.Context, func() *httpop.Operation) (*httpop.Operation, error) {
			called = true
			return nil, nil
		})
		j.Cancel()
		<-j.Done()
		assert.ErrorIs(t, j.Start(), httpop.ErrCancelled)
		op, err := j.result()
		assert.Nil(t, op)
		assert.ErrorIs(t, err, httpop.ErrCancelled)
		assert.False(t, called)
	})
	t.Run("cancel while running", func(t *testing.T) {
		j := newJob("u", nil, func(ctx context.Context, _ func() *httpop.Operation) (*httpop.Operation, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		require.NoError(t, j.Start())
		assert.ErrorIs(t, j.Start(), httpop.ErrAlreadyStarted)
		j.Cancel()
		select {
		case <-j.Done():
		case <-time.After(time.Second):
			t.Fatal("job not done after cancel")
		}
		_, err := j.result()
		assert.ErrorIs(t, err, context.Canceled)
	})
}
