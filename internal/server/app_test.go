package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/server/config"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "memory://"
	cfg.EndpointAddr = freeAddr(t)
	cfg.BcryptCost = 4
	return cfg
}

func TestNewApp_UnsupportedStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDSN = "redis://localhost"

	_, err := NewApp(context.Background(), cfg)
	require.ErrorIs(t, err, repomanager.ErrUnsupportedScheme)
}

func TestApp_RunServesUntilCancelled(t *testing.T) {
	var logs bytes.Buffer
	orig := logOutput
	logOutput = &logs
	defer func() { logOutput = orig }()

	cfg := testConfig(t)
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + cfg.EndpointAddr + "/healthz")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = http.Post("http://"+cfg.EndpointAddr+"/graphql", "application/json",
		strings.NewReader(`{"query":"{ getPosts { id } }"}`))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"data":{"getPosts":[]}}`, string(body))

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Contains(t, logs.String(), "App stopped")
}
