package remote

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typesync/internal/history"
	"github.com/verte-zerg/typesync/internal/model"
	"github.com/verte-zerg/typesync/internal/syncd"
)

func startServer(t *testing.T, backing *history.MemoryStore) string {
	t.Helper()
	srv := httptest.NewServer(syncd.NewServer(backing, log.New(io.Discard, "", 0)))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialTest(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_SetGetRoundtrip(t *testing.T) {
	backing := history.NewMemoryStore()
	c := dialTest(t, startServer(t, backing))
	ctx := context.Background()

	values, err := c.Get(ctx, []string{model.HistoryKey})
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, c.Set(ctx, map[string][]byte{model.HistoryKey: []byte(`[{"speed":1}]`)}))
	values, err = c.Get(ctx, []string{model.HistoryKey, "other"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{model.HistoryKey: []byte(`[{"speed":1}]`)}, values)
	assert.Equal(t, 1, backing.Writes())
}

func TestClient_ServerErrorsSurface(t *testing.T) {
	backing := history.NewMemoryStore()
	c := dialTest(t, startServer(t, backing))
	backing.FailSets(errors.New("quota exceeded"))

	err := c.Set(context.Background(), map[string][]byte{"k": []byte("v")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	backing.FailSets(nil)
	require.NoError(t, c.Set(context.Background(), map[string][]byte{"k": []byte("v")}), "connection survives store errors")
}

func TestClient_ConcurrentCalls(t *testing.T) {
	c := dialTest(t, startServer(t, history.NewMemoryStore()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			assert.NoError(t, c.Set(ctx, map[string][]byte{key: []byte(key)}))
			values, err := c.Get(ctx, []string{key})
			assert.NoError(t, err)
			assert.Equal(t, []byte(key), values[key])
		}(i)
	}
	wg.Wait()
}

func TestClient_HistoryLastWriterWins(t *testing.T) {
	url := startServer(t, history.NewMemoryStore())
	first := history.New(dialTest(t, url), history.Config{})
	defer first.Close()
	second := history.New(dialTest(t, url), history.Config{})
	defer second.Close()
	ctx := context.Background()

	_, err := first.Append(ctx, model.TestResult{Speed: 30})
	require.NoError(t, err)
	_, err = second.Append(ctx, model.TestResult{Speed: 40})
	require.NoError(t, err)

	log := first.Load(ctx)
	require.Len(t, log, 2)
	assert.Equal(t, 40.0, log[0].Speed)
	assert.Equal(t, 30.0, log[1].Speed)
}

func TestClient_CallsFailAfterClose(t *testing.T) {
	c := dialTest(t, startServer(t, history.NewMemoryStore()))
	require.NoError(t, c.Close())
	_, err := c.Get(context.Background(), []string{"k"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_ServerGoneFailsCalls(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
	}))
	t.Cleanup(srv.Close)
	c := dialTest(t, "ws"+strings.TrimPrefix(srv.URL, "http"))

	require.Eventually(t, func() bool {
		_, err := c.Get(context.Background(), []string{"k"})
		return errors.Is(err, ErrClosed)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/sync")
	assert.Error(t, err)
}
