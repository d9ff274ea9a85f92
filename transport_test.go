package mirra_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirra-dev/mirra"
)

type greetHeaders struct {
	Tenant string `header:"X-Tenant"`
}

type greetOutput struct {
	Greeting string `json:"greeting"`
	Tenant   string `json:"tenant,omitempty"`
}

func newTransportHandler(t *testing.T) http.Handler {
	t.Helper()

	b := newTestBuilder()
	mirra.Route(b, "greet", func(_ context.Context, _ *testState, in echoInput, h greetHeaders) (greetOutput, error) {
		return greetOutput{Greeting: "hello " + in.Message, Tenant: h.Tenant}, nil
	})
	mirra.Route(b, "status", noop, mirra.WithReadonly())
	mirra.Route(b, "fail", func(_ context.Context, _ *testState, _ mirra.Empty, _ mirra.Empty) (mirra.Empty, error) {
		return mirra.Empty{}, mirra.NewFault("gone", "it is gone").WithDetail("permanently")
	},
		mirra.WithError[*mirra.Fault](mirra.StatusTable{
			"gone": http.StatusGone,
		}),
	)

	dispatch, _ := b.Build()
	return mirra.NewHTTPHandler(dispatch, &testState{})
}

func TestHTTPHandler_post_with_body(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTransportHandler(t))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/greet", strings.NewReader(`{"message":"world"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant", "acme")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out greetOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "hello world", out.Greeting)
	assert.Equal(t, "acme", out.Tenant, "header binding")
}

func TestHTTPHandler_readonly_route_accepts_get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTransportHandler(t))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/status", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "Empty output responds 204")
}

func TestHTTPHandler_mutating_route_rejects_get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTransportHandler(t))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/greet", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHTTPHandler_error_mapping(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTransportHandler(t))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/fail", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusGone, resp.StatusCode)

	var fault mirra.Fault
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fault))
	assert.Equal(t, "gone", fault.Code)
	require.NotNil(t, fault.Detail)
	assert.Equal(t, "permanently", *fault.Detail)
}

func TestHTTPHandler_malformed_body(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTransportHandler(t))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/greet", strings.NewReader(`{not json`))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fault mirra.Fault
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fault))
	assert.Equal(t, "invalid_body", fault.Code)
}

func TestHTTPHandler_empty_body_allowed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTransportHandler(t))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/greet", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out greetOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "hello ", out.Greeting)
}
