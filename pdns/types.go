package pdns

import "encoding/json"

// ServerInfo mirrors a server entry as returned by /servers.
type ServerInfo struct {
	ID         string `json:"id"`
	Type       string `json:"type,omitempty"`
	URL        string `json:"url,omitempty"`
	DaemonType string `json:"daemon_type,omitempty"`
	Version    string `json:"version,omitempty"`
	ConfigURL  string `json:"config_url,omitempty"`
	ZonesURL   string `json:"zones_url,omitempty"`
}

// ZoneKind values accepted by the API.
const (
	ZoneKindNative = "Native"
	ZoneKindMaster = "Master"
	ZoneKindSlave  = "Slave"
)

// ZoneInfo mirrors a zone as returned by /servers/:id/zones. Listing calls
// omit the rrsets; Zone.Get returns them.
type ZoneInfo struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Type           string   `json:"type,omitempty"`
	URL            string   `json:"url,omitempty"`
	Kind           string   `json:"kind,omitempty"`
	Serial         uint32   `json:"serial,omitempty"`
	NotifiedSerial uint32   `json:"notified_serial,omitempty"`
	Account        string   `json:"account,omitempty"`
	DNSSEC         bool     `json:"dnssec,omitempty"`
	Masters        []string `json:"masters,omitempty"`
	Nameservers    []string `json:"nameservers,omitempty"`
	RRsets         []RRset  `json:"rrsets,omitempty"`
}

// RRset changetypes used when patching a zone.
const (
	ChangeTypeReplace = "REPLACE"
	ChangeTypeDelete  = "DELETE"
)

// RRset represents all records sharing a name and type.
type RRset struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	TTL        uint32    `json:"ttl,omitempty"`
	ChangeType string    `json:"changetype,omitempty"`
	Records    []Record  `json:"records,omitempty"`
	Comments   []Comment `json:"comments,omitempty"`
}

// Record represents a single record within an RRset.
type Record struct {
	Content  string `json:"content"`
	Disabled bool   `json:"disabled"`
}

// Comment represents a comment attached to an RRset.
type Comment struct {
	Content    string `json:"content"`
	Account    string `json:"account,omitempty"`
	ModifiedAt int64  `json:"modified_at,omitempty"`
}

// ConfigSettingInfo mirrors one configuration key/value pair as returned by
// /servers/:id/config.
type ConfigSettingInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// OverrideInfo mirrors a server override entry. The upstream schema is
// sparse; only the fields the API is known to return are typed.
type OverrideInfo struct {
	ID      json.Number `json:"id,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Domain  string      `json:"domain,omitempty"`
	Content string      `json:"content,omitempty"`
}

// SearchResult mirrors one hit from /servers/:id/search-data.
type SearchResult struct {
	Name       string `json:"name"`
	ObjectType string `json:"object_type"`
	ZoneID     string `json:"zone_id,omitempty"`
	Zone       string `json:"zone,omitempty"`
	Type       string `json:"type,omitempty"`
	TTL        uint32 `json:"ttl,omitempty"`
	Content    string `json:"content,omitempty"`
	Disabled   bool   `json:"disabled,omitempty"`
}

// Statistic mirrors one entry from /servers/:id/statistics. Value is a JSON
// string for simple counters but an array for map and ring statistics, so it
// is kept raw.
type Statistic struct {
	Name  string          `json:"name"`
	Type  string          `json:"type,omitempty"`
	Value json.RawMessage `json:"value"`
}

// StringValue returns the value of a simple counter statistic, or the empty
// string when the value is structured.
func (s Statistic) StringValue() string {
	var v string
	if err := json.Unmarshal(s.Value, &v); err != nil {
		return ""
	}
	return v
}

// TraceStatus mirrors the tracing state returned by GET /servers/:id/trace.
type TraceStatus struct {
	Regex string   `json:"regex"`
	Log   []string `json:"log,omitempty"`
}

// CacheFlushResult mirrors the response of PUT /servers/:id/cache/flush.
type CacheFlushResult struct {
	Count  int    `json:"count"`
	Result string `json:"result"`
}
