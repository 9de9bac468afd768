package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/STTM-NSU/currency-transformer/internal/config"
	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestHTTPServer_RunShutdown(t *testing.T) {
	cfg := config.ServerConfig{Port: "0"}
	cfg.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewHTTPServer(ctx, cfg, http.NotFoundHandler(), logger.NewNopLogger())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
