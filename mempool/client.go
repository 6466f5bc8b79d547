package mempool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// MethodContent is the only method the client ever calls.
const MethodContent = "txpool_content"

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

// Client posts txpool_content requests to a JSON-RPC HTTP endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient}, nil
}

// Envelope encodes the request body for the given id.
func Envelope(id int) ([]byte, error) {
	return json.Marshal(request{
		JSONRPC: "2.0",
		Method:  MethodContent,
		Params:  []any{},
		ID:      id,
	})
}

// TxPoolContent performs one request. The deadline of ctx bounds the whole
// round trip including reading the body. The id of the response is not
// checked.
func (c *Client) TxPoolContent(ctx context.Context, id int) (*Content, error) {
	body, err := Envelope(id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return ParseContent(raw)
}
