package mempool

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	body, err := Envelope(7)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","method":"txpool_content","params":[],"id":7}`, string(body))
}

func TestTxPoolContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			JSONRPC string `json:"jsonrpc"`
			Method  string `json:"method"`
			Params  []any  `json:"params"`
			ID      int    `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "2.0", req.JSONRPC)
		require.Equal(t, MethodContent, req.Method)
		require.Empty(t, req.Params)
		require.Equal(t, 4, req.ID)

		w.Write([]byte(`{"jsonrpc":"2.0","id":4,"result":{"pending":{"0xA":{"1":{"nonce":"0x1"}}},"queued":{}}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	content, err := client.TxPoolContent(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, []string{"0xA"}, content.Addresses(CategoryPending))
	require.Empty(t, content.Addresses(CategoryQueued))
}

func TestTxPoolContentTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.TxPoolContent(ctx, 0)
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, KindTransport, KindOf(err))
}

func TestTxPoolContentConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url, nil)
	require.NoError(t, err)

	_, err = client.TxPoolContent(context.Background(), 0)
	require.Error(t, err)
	require.Equal(t, KindTransport, KindOf(err))
}

func TestTxPoolContentNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.TxPoolContent(context.Background(), 0)
	require.Error(t, err)
	require.Equal(t, KindDecode, KindOf(err))
}

func TestNewClientRejectsBadEndpoint(t *testing.T) {
	_, err := NewClient("ws://localhost:8546", nil)
	require.Error(t, err)

	_, err = NewClient("://nope", nil)
	require.Error(t, err)
}
