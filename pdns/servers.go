package pdns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Server is a proxy for one server instance under /servers/:id. It carries
// only its URL and an optional listing snapshot; constructing one performs
// no I/O, and the ID and URL never change after construction.
type Server struct {
	client *Client
	path   string

	// ID is the server instance name, "localhost" on a default install.
	ID string

	// Info is the snapshot from the listing that produced this proxy. It is
	// zero for proxies obtained lazily via Client.Server.
	Info ServerInfo
}

// Servers lists all server instances and returns them keyed by server ID,
// each proxy seeded with its listing entry.
func (c *Client) Servers(ctx context.Context) (map[string]*Server, error) {
	var infos []ServerInfo
	if err := c.get(ctx, "/servers", nil, &infos); err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	servers := make(map[string]*Server, len(infos))
	for _, info := range infos {
		server := c.Server(info.ID)
		server.Info = info
		servers[info.ID] = server
	}

	c.logger.Debug().Int("count", len(servers)).Msg("Retrieved servers from PowerDNS")
	return servers, nil
}

// Server returns a proxy for the given server ID without contacting the API.
func (c *Client) Server(id string) *Server {
	return &Server{
		client: c,
		path:   joinPath("/servers", id),
		ID:     id,
	}
}

// URL returns the absolute URL of the server resource.
func (s *Server) URL() string {
	return s.client.baseURL + apiPrefix + s.path
}

// Get fetches the server details.
func (s *Server) Get(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := s.client.get(ctx, s.path, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", s.ID, err)
	}
	return &info, nil
}

// Config fetches all configuration settings, flattened to a name-to-value
// map.
func (s *Server) Config(ctx context.Context) (map[string]string, error) {
	var settings []ConfigSettingInfo
	if err := s.client.get(ctx, joinPath(s.path, "config"), nil, &settings); err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Name] = setting.Value
	}
	return values, nil
}

// ConfigSetting returns a proxy for a single configuration setting without
// contacting the API.
func (s *Server) ConfigSetting(name string) *ConfigSetting {
	return &ConfigSetting{
		client: s.client,
		path:   joinPath(s.path, "config", name),
		Name:   name,
	}
}

// SetConfig creates or replaces a configuration setting with a single POST.
// No read is issued beforehand.
func (s *Server) SetConfig(ctx context.Context, name, value string) (*ConfigSetting, error) {
	setting := s.ConfigSetting(name)
	body := ConfigSettingInfo{Name: name, Type: "ConfigSetting", Value: value}
	if err := s.client.post(ctx, joinPath(s.path, "config"), body, &setting.Info); err != nil {
		return nil, fmt.Errorf("failed to set config %s: %w", name, err)
	}
	return setting, nil
}

// Overrides lists all overrides, keyed by override ID, each proxy seeded
// with its listing entry.
func (s *Server) Overrides(ctx context.Context) (map[string]*Override, error) {
	var infos []OverrideInfo
	if err := s.client.get(ctx, joinPath(s.path, "overrides"), nil, &infos); err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}

	overrides := make(map[string]*Override, len(infos))
	for _, info := range infos {
		override := s.Override(info.ID.String())
		override.Info = info
		overrides[info.ID.String()] = override
	}
	return overrides, nil
}

// Override returns a proxy for the given override ID without contacting the
// API.
func (s *Server) Override(id string) *Override {
	return &Override{
		client: s.client,
		path:   joinPath(s.path, "overrides", id),
		ID:     id,
	}
}

// FlushCache wipes the packet cache for the given domain with a single PUT.
// An empty domain flushes the entire cache, per upstream semantics; no
// validation happens client-side. The decoded response is returned verbatim.
func (s *Server) FlushCache(ctx context.Context, domain string) (*CacheFlushResult, error) {
	params := url.Values{}
	if domain != "" {
		params.Set("domain", domain)
	}

	var result CacheFlushResult
	if err := s.client.put(ctx, s.path+"/cache/flush", params, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to flush cache: %w", err)
	}
	return &result, nil
}

// Trace fetches the current query tracing state.
func (s *Server) Trace(ctx context.Context) (*TraceStatus, error) {
	var status TraceStatus
	if err := s.client.get(ctx, joinPath(s.path, "trace"), nil, &status); err != nil {
		return nil, fmt.Errorf("failed to get trace: %w", err)
	}
	return &status, nil
}

// SetTrace enables query tracing for domains matching the given regex. An
// empty regex disables tracing, per upstream semantics.
func (s *Server) SetTrace(ctx context.Context, domains string) error {
	body := map[string]string{"domains": domains}
	if err := s.client.put(ctx, joinPath(s.path, "trace"), nil, body, nil); err != nil {
		return fmt.Errorf("failed to set trace: %w", err)
	}
	return nil
}

// SearchData searches zone data across the server. max limits the number of
// results and is omitted from the query when not positive.
func (s *Server) SearchData(ctx context.Context, q string, max int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", q)
	if max > 0 {
		params.Set("max", fmt.Sprintf("%d", max))
	}

	var results []SearchResult
	if err := s.client.get(ctx, joinPath(s.path, "search-data"), params, &results); err != nil {
		return nil, fmt.Errorf("failed to search data: %w", err)
	}
	return results, nil
}

// SearchLog greps the query log ring buffer for the given term.
func (s *Server) SearchLog(ctx context.Context, q string) ([]string, error) {
	params := url.Values{}
	params.Set("q", q)

	var lines []string
	if err := s.client.get(ctx, joinPath(s.path, "search-log"), params, &lines); err != nil {
		return nil, fmt.Errorf("failed to search log: %w", err)
	}
	return lines, nil
}

// Statistics fetches all internal statistics of the server.
func (s *Server) Statistics(ctx context.Context) ([]Statistic, error) {
	var stats []Statistic
	if err := s.client.get(ctx, joinPath(s.path, "statistics"), nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}

// Failures would expose the remote failure log, but no released PowerDNS
// version serves the endpoint. It always returns ErrNotSupported rather than
// pretending to succeed.
func (s *Server) Failures(ctx context.Context) (json.RawMessage, error) {
	return nil, fmt.Errorf("failures for server %s: %w", s.ID, ErrNotSupported)
}
