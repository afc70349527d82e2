package pdns

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "secret", zerolog.Nop())
	require.NoError(t, err)
	return client, server
}

func TestServers(t *testing.T) {
	var requests int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/servers", r.URL.Path)
		json.NewEncoder(w).Encode([]ServerInfo{
			{ID: "localhost", DaemonType: "authoritative", Version: "4.9.0"},
		})
	}))

	servers, err := client.Servers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	localhost := servers["localhost"]
	require.NotNil(t, localhost)
	assert.Equal(t, "localhost", localhost.ID)
	assert.Equal(t, "4.9.0", localhost.Info.Version)
}

func TestServerIsLazy(t *testing.T) {
	var requests int32
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))

	server := client.Server("localhost")
	assert.Equal(t, srv.URL+"/api/v1/servers/localhost", server.URL())

	// Constructing proxies must not touch the network.
	server.Zone("example.com.")
	server.ConfigSetting("version")
	server.Override("42")
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestServerDuplicateLookupsAreIndependent(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	a := client.Server("localhost")
	b := client.Server("localhost")
	assert.NotSame(t, a, b)
	assert.Equal(t, a.URL(), b.URL())
}

func TestServerGet(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost", r.URL.Path)
		json.NewEncoder(w).Encode(ServerInfo{ID: "localhost", Version: "4.9.0"})
	}))

	info, err := client.Server("localhost").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.9.0", info.Version)
}

func TestServerConfig(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/servers/localhost/config", r.URL.Path)
		json.NewEncoder(w).Encode([]ConfigSettingInfo{
			{Name: "api", Type: "ConfigSetting", Value: "yes"},
			{Name: "default-ttl", Type: "ConfigSetting", Value: "3600"},
		})
	}))

	values, err := client.Server("localhost").Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"api":         "yes",
		"default-ttl": "3600",
	}, values)
}

func TestConfigSettingURL(t *testing.T) {
	client, srv := newTestClient(t, http.NotFoundHandler())

	setting := client.Server("localhost").ConfigSetting("default-ttl")
	assert.Equal(t, srv.URL+"/api/v1/servers/localhost/config/default-ttl", setting.URL())
}

func TestSetConfigIssuesSinglePost(t *testing.T) {
	var gets, posts int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt32(&gets, 1)
		case http.MethodPost:
			atomic.AddInt32(&posts, 1)
			assert.Equal(t, "/api/v1/servers/localhost/config", r.URL.Path)

			var body ConfigSettingInfo
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "default-ttl", body.Name)
			assert.Equal(t, "300", body.Value)

			json.NewEncoder(w).Encode(body)
		}
	}))

	setting, err := client.Server("localhost").SetConfig(context.Background(), "default-ttl", "300")
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gets), "create must not be preceded by a read")
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
	assert.Equal(t, "300", setting.Info.Value)
}

func TestConfigSettingGetAndSet(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost/config/default-ttl", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(ConfigSettingInfo{Name: "default-ttl", Value: "3600"})
		case http.MethodPut:
			var body ConfigSettingInfo
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "300", body.Value)
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))

	setting := client.Server("localhost").ConfigSetting("default-ttl")

	info, err := setting.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3600", info.Value)

	require.NoError(t, setting.Set(context.Background(), "300"))
}

func TestOverrides(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost/overrides", r.URL.Path)
		json.NewEncoder(w).Encode([]OverrideInfo{
			{ID: "1", Kind: "forward", Domain: "corp.example.com."},
		})
	}))

	overrides, err := client.Server("localhost").Overrides(context.Background())
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, "corp.example.com.", overrides["1"].Info.Domain)
}

func TestOverrideLifecycle(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost/overrides/1", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(OverrideInfo{ID: "1", Domain: "corp.example.com."})
		case http.MethodPut, http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))

	override := client.Server("localhost").Override("1")
	assert.Equal(t, srv.URL+"/api/v1/servers/localhost/overrides/1", override.URL())

	info, err := override.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "corp.example.com.", info.Domain)

	require.NoError(t, override.Update(context.Background(), *info))
	require.NoError(t, override.Delete(context.Background()))
}

func TestFlushCache(t *testing.T) {
	var requests int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/servers/localhost/cache/flush", r.URL.Path)
		assert.Equal(t, "domain=www.example.com.", r.URL.RawQuery)
		json.NewEncoder(w).Encode(CacheFlushResult{Count: 2, Result: "Flushed cache."})
	}))

	result, err := client.Server("localhost").FlushCache(context.Background(), "www.example.com.")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "Flushed cache.", result.Result)
}

func TestFlushCacheEncodesDomain(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "domain=with+space.example.com.", r.URL.RawQuery)
		json.NewEncoder(w).Encode(CacheFlushResult{})
	}))

	_, err := client.Server("localhost").FlushCache(context.Background(), "with space.example.com.")
	require.NoError(t, err)
}

func TestFlushCacheEmptyDomainFlushesAll(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(CacheFlushResult{Count: 100, Result: "Flushed cache."})
	}))

	result, err := client.Server("localhost").FlushCache(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 100, result.Count)
}

func TestTrace(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/servers/localhost/trace", r.URL.Path)
		json.NewEncoder(w).Encode(TraceStatus{
			Regex: ".*\\.example\\.com\\.$",
			Log:   []string{"question: www.example.com. IN A"},
		})
	}))

	status, err := client.Server("localhost").Trace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ".*\\.example\\.com\\.$", status.Regex)
	require.Len(t, status.Log, 1)
}

func TestSetTrace(t *testing.T) {
	tests := []struct {
		name    string
		domains string
	}{
		{name: "enable", domains: ".*\\.example\\.com\\.$"},
		{name: "disable with empty regex", domains: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/api/v1/servers/localhost/trace", r.URL.Path)

				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.domains, body["domains"])
				w.WriteHeader(http.StatusOK)
			}))

			err := client.Server("localhost").SetTrace(context.Background(), tt.domains)
			require.NoError(t, err)
		})
	}
}

func TestSearchData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost/search-data", r.URL.Path)
		assert.Equal(t, "example", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("max"))
		json.NewEncoder(w).Encode([]SearchResult{
			{
				Name:       "www.example.com.",
				ObjectType: "record",
				ZoneID:     "example.com.",
				Type:       "A",
				TTL:        3600,
				Content:    "192.0.2.1",
			},
		})
	}))

	results, err := client.Server("localhost").SearchData(context.Background(), "example", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "www.example.com.", results[0].Name)
	assert.Equal(t, "A", results[0].Type)
}

func TestSearchDataOmitsMaxWhenZero(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "example", r.URL.Query().Get("q"))
		assert.False(t, r.URL.Query().Has("max"))
		json.NewEncoder(w).Encode([]SearchResult{})
	}))

	_, err := client.Server("localhost").SearchData(context.Background(), "example", 0)
	require.NoError(t, err)
}

func TestSearchLog(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost/search-log", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode([]string{"grepped log line"})
	}))

	lines, err := client.Server("localhost").SearchLog(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"grepped log line"}, lines)
}

func TestStatistics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/localhost/statistics", r.URL.Path)
		w.Write([]byte(`[
			{"name": "udp-queries", "type": "StatisticItem", "value": "42"},
			{"name": "response-sizes", "type": "RingStatisticItem", "value": [{"name": "20", "value": "3"}]}
		]`))
	}))

	stats, err := client.Server("localhost").Statistics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "udp-queries", stats[0].Name)
	assert.Equal(t, "42", stats[0].StringValue())
	assert.Empty(t, stats[1].StringValue(), "structured values have no string form")
}

func TestFailuresIsNotSupported(t *testing.T) {
	var requests int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))

	_, err := client.Server("localhost").Failures(context.Background())
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests), "unsupported endpoints must not be called")
}
