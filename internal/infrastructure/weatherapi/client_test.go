package weatherapi

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wxq/internal/domain"
)

func newTestClient(t *testing.T, endpoint domain.EndpointSettings) *Client {
	t.Helper()
	client, err := NewClient(endpoint)
	require.NoError(t, err)
	return client
}

func TestBuildTarget(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		city string
		want string
	}{
		{
			name: "absolute base",
			base: "http://localhost:8000",
			path: "/api/weather",
			city: "London",
			want: "http://localhost:8000/api/weather?city=London",
		},
		{
			name: "trailing slash on base",
			base: "https://weather.example.com/",
			path: "/api/weather",
			city: "Paris",
			want: "https://weather.example.com/api/weather?city=Paris",
		},
		{
			name: "relative target",
			base: "",
			path: "/api/weather",
			city: "New York",
			want: "/api/weather?city=New%20York",
		},
		{
			name: "escapes query delimiters",
			base: "http://h",
			path: "/w",
			city: "A&B=C/D",
			want: "http://h/w?city=A%26B%3DC%2FD",
		},
		{
			name: "escapes non ascii",
			base: "http://h",
			path: "/w",
			city: "São Paulo",
			want: "http://h/w?city=S%C3%A3o%20Paulo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildTarget(tt.base, tt.path, tt.city))
		})
	}
}

func TestLookupRoundTrip(t *testing.T) {
	var gotQuery, gotAccept, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query().Get("city")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"city":"London","temperature":15,"condition":"Cloudy","humidity":80,"wind_speed":12}`))
	}))
	defer server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: server.URL, Path: "/api/weather"})
	result, err := client.Lookup(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "London", gotQuery)
	assert.Equal(t, "application/json", gotAccept)

	assert.Equal(t, "London", result.City)
	assert.Equal(t, 15.0, result.Temperature)
	assert.Equal(t, "Cloudy", result.Condition)
	require.NotNil(t, result.Humidity)
	require.NotNil(t, result.WindSpeed)
	assert.Equal(t, 80.0, *result.Humidity)
	assert.Equal(t, 12.0, *result.WindSpeed)
}

func TestLookupRelativePathResolvesAgainstOrigin(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"city":"Paris","temperature":20,"condition":"Sunny"}`))
	}))
	defer server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: "", Path: "/api/weather", Origin: server.URL})
	result, err := client.Lookup(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "/api/weather", gotPath)
	assert.Nil(t, result.Humidity)
	assert.Nil(t, result.WindSpeed)

	target, err := client.TargetFor("Paris")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/api/weather?city=Paris", target)
}

func TestLookupHTTPFailureSkipsDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: server.URL})
	_, err := client.Lookup(context.Background(), "Atlantis")
	require.Error(t, err)

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, domain.FailureHTTP, lookupErr.Kind)
	assert.Equal(t, http.StatusNotFound, lookupErr.StatusCode)
	assert.Contains(t, lookupErr.Message(), "404")
	assert.NotContains(t, lookupErr.Message(), "parse")
}

func TestLookupDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: server.URL})
	_, err := client.Lookup(context.Background(), "London")

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, domain.FailureDecode, lookupErr.Kind)
	assert.True(t, strings.HasPrefix(lookupErr.Message(), "Failed to parse JSON response: "))
}

func TestLookupTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: url})
	_, err := client.Lookup(context.Background(), "London")

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, domain.FailureTransport, lookupErr.Kind)
	assert.True(t, strings.HasPrefix(lookupErr.Message(), "Failed to fetch weather data: "))
}

func TestLookupTruncatedBodyIsTransportFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, err := http.ReadRequest(bufio.NewReader(conn)); err != nil {
			return
		}
		_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n{\"cit"))
	}()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: "http://" + listener.Addr().String()})
	_, err = client.Lookup(context.Background(), "London")

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, domain.FailureTransport, lookupErr.Kind)
	assert.True(t, strings.HasPrefix(lookupErr.Message(), "Failed to fetch weather data: "))
	assert.NotContains(t, lookupErr.Message(), "parse")
}

func TestLookupRequestsOncePerCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: server.URL})
	_, err := client.Lookup(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, domain.EndpointSettings{BaseURL: server.URL})
	assert.NoError(t, client.Ping(context.Background()))

	broken := newTestClient(t, domain.EndpointSettings{BaseURL: server.URL, HealthPath: "/missing"})
	assert.Error(t, broken.Ping(context.Background()))
}

func TestNewClientRejectsBadOrigin(t *testing.T) {
	_, err := NewClient(domain.EndpointSettings{Origin: "/relative"})
	assert.Error(t, err)

	_, err = NewClient(domain.EndpointSettings{BaseURL: "http://"})
	assert.Error(t, err)
}
