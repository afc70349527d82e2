package pdns

import (
	"context"
	"fmt"
	"net/http"
)

// Zone is a proxy for one zone under /servers/:id/zones/:zone_id. Like all
// proxies it is stateless between calls: every read re-derives the remote
// representation.
type Zone struct {
	client *Client
	path   string

	// ID is the zone ID, usually the canonical zone name ("example.com.").
	ID string

	// Info is the snapshot from the listing that produced this proxy. It is
	// zero for proxies obtained lazily via Server.Zone and never contains
	// rrsets unless filled in by Get or FetchZoneDetails.
	Info ZoneInfo
}

// Zones lists all zones on the server with a single GET and returns them
// keyed by zone ID, each proxy seeded with its listing entry.
func (s *Server) Zones(ctx context.Context) (map[string]*Zone, error) {
	var infos []ZoneInfo
	if err := s.client.get(ctx, joinPath(s.path, "zones"), nil, &infos); err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	zones := make(map[string]*Zone, len(infos))
	for _, info := range infos {
		zone := s.Zone(info.ID)
		zone.Info = info
		zones[info.ID] = zone
	}

	s.client.logger.Debug().
		Str("server", s.ID).
		Int("count", len(zones)).
		Msg("Retrieved zones from PowerDNS")
	return zones, nil
}

// Zone returns a proxy for the given zone ID without contacting the API.
func (s *Server) Zone(id string) *Zone {
	return &Zone{
		client: s.client,
		path:   joinPath(s.path, "zones", id),
		ID:     id,
	}
}

// CreateZone creates a new zone on the server and returns a proxy for it,
// seeded with the server's view of the created zone.
func (s *Server) CreateZone(ctx context.Context, info ZoneInfo) (*Zone, error) {
	var created ZoneInfo
	if err := s.client.post(ctx, joinPath(s.path, "zones"), info, &created); err != nil {
		return nil, fmt.Errorf("failed to create zone %s: %w", info.Name, err)
	}

	zone := s.Zone(created.ID)
	zone.Info = created
	return zone, nil
}

// URL returns the absolute URL of the zone resource.
func (z *Zone) URL() string {
	return z.client.baseURL + apiPrefix + z.path
}

// Get fetches the full zone, rrsets included.
func (z *Zone) Get(ctx context.Context) (*ZoneInfo, error) {
	var info ZoneInfo
	if err := z.client.get(ctx, z.path, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get zone %s: %w", z.ID, err)
	}
	return &info, nil
}

// Delete removes the zone from the server.
func (z *Zone) Delete(ctx context.Context) error {
	if err := z.client.delete(ctx, z.path); err != nil {
		return fmt.Errorf("failed to delete zone %s: %w", z.ID, err)
	}
	return nil
}

// ModifyRRsets applies the given rrset changes with a single PATCH. Each
// rrset must carry a changetype (ChangeTypeReplace or ChangeTypeDelete).
func (z *Zone) ModifyRRsets(ctx context.Context, rrsets []RRset) error {
	body := map[string][]RRset{"rrsets": rrsets}
	if err := z.client.patch(ctx, z.path, body, nil); err != nil {
		return fmt.Errorf("failed to modify rrsets of zone %s: %w", z.ID, err)
	}
	return nil
}

// ReplaceRecords replaces all records of the given name and type with the
// given contents.
func (z *Zone) ReplaceRecords(ctx context.Context, name, rtype string, ttl uint32, contents ...string) error {
	records := make([]Record, 0, len(contents))
	for _, content := range contents {
		records = append(records, Record{Content: content})
	}
	return z.ModifyRRsets(ctx, []RRset{{
		Name:       name,
		Type:       rtype,
		TTL:        ttl,
		ChangeType: ChangeTypeReplace,
		Records:    records,
	}})
}

// DeleteRecords removes all records of the given name and type.
func (z *Zone) DeleteRecords(ctx context.Context, name, rtype string) error {
	return z.ModifyRRsets(ctx, []RRset{{
		Name:       name,
		Type:       rtype,
		ChangeType: ChangeTypeDelete,
	}})
}

// Notify queues a NOTIFY to all slaves of the zone.
func (z *Zone) Notify(ctx context.Context) error {
	if err := z.client.put(ctx, z.path+"/notify", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to notify zone %s: %w", z.ID, err)
	}
	return nil
}

// Retrieve queues an AXFR retrieval from the zone's master.
func (z *Zone) Retrieve(ctx context.Context) error {
	if err := z.client.put(ctx, z.path+"/axfr-retrieve", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to retrieve zone %s: %w", z.ID, err)
	}
	return nil
}

// Export returns the zone in AXFR (zonefile) format.
func (z *Zone) Export(ctx context.Context) (string, error) {
	text, err := z.client.doRequestText(ctx, http.MethodGet, z.path+"/export")
	if err != nil {
		return "", fmt.Errorf("failed to export zone %s: %w", z.ID, err)
	}
	return text, nil
}
