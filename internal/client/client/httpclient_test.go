package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/scanpack/internal/client/models"
	"github.com/dmitrijs2005/scanpack/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_Login_Success(t *testing.T) {
	var got map[string]string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get(common.AuthorizationHeaderName))
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"token":"abc123","user":{"id":7,"user_contact":"+910000000000","user_type":"staff"}}`))
	})

	c := NewHTTPClient(srv.URL + "/api/")
	res, err := c.Login(context.Background(), "+910000000000", []byte("secret"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"user_contact": "+910000000000", "password": "secret"}, got)
	assert.Equal(t, "abc123", res.Token)
	assert.Equal(t, models.FlexID("7"), res.User.ID)
	assert.Equal(t, "staff", res.User.UserType)
}

func TestHTTPClient_Login_Rejected(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"wrong password"}`))
		})

		_, err := NewHTTPClient(srv.URL).Login(context.Background(), "u", []byte("p"))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidCredentials, "status %d", status)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, status, apiErr.Status)
		assert.Equal(t, "wrong password", apiErr.Message)
	}
}

func TestHTTPClient_Login_ServerErrorIsNotInvalidCredentials(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := NewHTTPClient(srv.URL).Login(context.Background(), "u", []byte("p"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestHTTPClient_Login_MalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not json":      `<html>`,
		"missing token": `{"user":{"id":"1"}}`,
		"missing user":  `{"token":"abc"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := NewHTTPClient(srv.URL).Login(context.Background(), "u", []byte("p"))
			assert.ErrorIs(t, err, common.ErrMalformedResponse)
		})
	}
}

func TestHTTPClient_Ping(t *testing.T) {
	healthy := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	require.NoError(t, NewHTTPClient(healthy.URL).Ping(context.Background()))

	broken := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.ErrorIs(t, NewHTTPClient(broken.URL).Ping(context.Background()), common.ErrUnavailable)

	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()
	assert.ErrorIs(t, NewHTTPClient(down.URL).Ping(context.Background()), common.ErrUnavailable)
}

func TestHTTPClient_GetJSON_AttachesBearer(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/boxes", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get(common.AuthorizationHeaderName))
		_, _ = w.Write([]byte(`{"count":3}`))
	})

	c := NewHTTPClient(srv.URL+"/api", WithTokenSource(staticToken("abc123")))

	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "boxes", &out))
	assert.Equal(t, 3, out.Count)
}

func TestHTTPClient_UnauthorizedWithTokenTriggersHandler(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var calls atomic.Int32
	c := NewHTTPClient(srv.URL,
		WithTokenSource(staticToken("expired")),
		WithUnauthorizedHandler(func(context.Context) { calls.Add(1) }),
	)

	err := c.GetJSON(context.Background(), "/boxes", nil)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.EqualValues(t, 1, calls.Load())
}

func TestHTTPClient_UnauthorizedWithoutTokenDoesNotTriggerHandler(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var calls atomic.Int32
	c := NewHTTPClient(srv.URL,
		WithTokenSource(staticToken("")),
		WithUnauthorizedHandler(func(context.Context) { calls.Add(1) }),
	)

	_, err := c.Login(context.Background(), "u", []byte("p"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Zero(t, calls.Load())
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTPClient(srv.URL).GetJSON(ctx, "/slow", nil)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

type recordingTransport struct {
	req *http.Request
}

func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r.req = req
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestBearerTransport_DoesNotMutateRequest(t *testing.T) {
	base := &recordingTransport{}
	tr := &BearerTransport{Base: base, Tokens: staticToken("abc123")}

	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/x", nil)
	require.NoError(t, err)

	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Empty(t, req.Header.Get(common.AuthorizationHeaderName))
	assert.Equal(t, "Bearer abc123", base.req.Header.Get(common.AuthorizationHeaderName))
	assert.NotEmpty(t, base.req.Header.Get(common.RequestIDHeaderName))
}

func TestBearerTransport_KeepsCallerRequestID(t *testing.T) {
	base := &recordingTransport{}
	tr := &BearerTransport{Base: base}

	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/x", nil)
	require.NoError(t, err)
	req.Header.Set(common.RequestIDHeaderName, "fixed")

	_, err = tr.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", base.req.Header.Get(common.RequestIDHeaderName))
	assert.Empty(t, base.req.Header.Get(common.AuthorizationHeaderName))
}

func TestAPIError(t *testing.T) {
	assert.Equal(t, "api error: 404 Not Found", (&APIError{Status: 404}).Error())
	assert.Equal(t, "api error: 400 bad", (&APIError{Status: 400, Message: "bad"}).Error())
	assert.ErrorIs(t, &APIError{Status: 403}, common.ErrUnauthorized)
	assert.ErrorIs(t, &APIError{Status: 503}, common.ErrUnavailable)
	assert.Nil(t, (&APIError{Status: 418}).Unwrap())
}
