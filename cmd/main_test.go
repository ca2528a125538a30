package main

import (
	"context"
	"io"
	"lunarwatch/pkg/config"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenBusyPort(t *testing.T) {

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	srv := new(server)
	require.Error(t, srv.Listen(port, time.Second))
}

func TestServeAndShutdown(t *testing.T) {

	srv := new(server)
	require.NoError(t, srv.Listen("0", time.Second))

	addr := srv.listener.Addr().String()

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))
	}()

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))

	require.NoError(t, srv.Shutdown(context.Background()))
	require.ErrorIs(t, <-done, http.ErrServerClosed)
}

func TestOpenJournalDisabled(t *testing.T) {

	repos, db := openJournal(&config.Config{})
	require.Nil(t, db)
	require.NotNil(t, repos)
	require.NoError(t, repos.EnsureSchema(context.Background()))
}
