/*
Copyright 2026 The Skaffold Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/app"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/config"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	werrors "github.com/GoogleContainerTools/welcome/pkg/welcome/errors"
)

func testOptions() config.WelcomeOptions {
	opts := config.DefaultOptions()
	opts.Host = "127.0.0.1"
	opts.Port = 0
	return opts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServeEndToEnd(t *testing.T) {
	opts := testOptions()
	var out bytes.Buffer
	s := New(&out, opts, app.New().Handler())
	require.NoError(t, s.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	for i := 0; i < 3; i++ {
		resp, body := get(t, s.URL()+"/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "<h1>欢迎使用 Flask 应用！</h1>", body)
	}

	resp, body := get(t, s.URL()+"/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEqual(t, constants.Greeting, body)

	post, err := http.Post(s.URL()+"/", "text/plain", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
	assert.Equal(t, "GET, HEAD, OPTIONS", post.Header.Get("Allow"))

	cancel()
	require.NoError(t, <-errCh)
	assert.Contains(t, out.String(), " * Running on http://127.0.0.1:")
	assert.Contains(t, out.String(), " * Debug mode: off")
}

func TestBindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	opts := testOptions()
	opts.Port = occupied.Addr().(*net.TCPAddr).Port
	var out bytes.Buffer
	s := New(&out, opts, app.New().Handler())

	err = s.Run(context.Background())

	require.Error(t, err)
	assert.True(t, werrors.IsBindError(err))
	assert.Equal(t, werrors.ExitCodeBind, werrors.ExitCode(err))
	assert.Nil(t, s.Addr())
	assert.Empty(t, out.String())
}

func TestServeWithoutListen(t *testing.T) {
	s := New(io.Discard, testOptions(), http.NotFoundHandler())

	assert.Error(t, s.Serve(context.Background()))
}

func TestGracefulShutdown(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		app.Home(w, r)
	})

	s := New(io.Discard, testOptions(), handler)
	require.NoError(t, s.Listen())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	respCh := make(chan int, 1)
	go func() {
		resp, err := http.Get(s.URL() + "/")
		if err != nil {
			respCh <- 0
			return
		}
		resp.Body.Close()
		respCh <- resp.StatusCode
	}()

	<-started
	cancel()

	assert.Equal(t, http.StatusOK, <-respCh)
	assert.NoError(t, <-errCh)
}

func TestForcedShutdown(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	})

	opts := testOptions()
	opts.ShutdownTimeout = 50 * time.Millisecond
	s := New(io.Discard, opts, handler)
	require.NoError(t, s.Listen())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	go func() {
		if resp, err := http.Get(s.URL() + "/"); err == nil {
			resp.Body.Close()
		}
	}()

	<-started
	cancel()

	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after the shutdown timeout")
	}
}

func TestListenUsesConfiguredAddress(t *testing.T) {
	var requested string
	orig := listen
	listen = func(network, address string) (net.Listener, error) {
		requested = address
		return orig(network, "127.0.0.1:0")
	}
	defer func() { listen = orig }()

	s := New(io.Discard, config.DefaultOptions(), http.NotFoundHandler())
	require.NoError(t, s.Listen())
	defer s.listener.Close()

	assert.Equal(t, "0.0.0.0:5000", requested)
	assert.NotNil(t, s.Addr())
}
