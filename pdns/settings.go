package pdns

import (
	"context"
	"fmt"
)

// ConfigSetting is a proxy for one configuration setting under
// /servers/:id/config/:name.
type ConfigSetting struct {
	client *Client
	path   string

	// Name is the configuration key.
	Name string

	// Info is filled in by Get or by the create call that produced this
	// proxy; zero for lazily constructed proxies.
	Info ConfigSettingInfo
}

// URL returns the absolute URL of the setting resource.
func (cs *ConfigSetting) URL() string {
	return cs.client.baseURL + apiPrefix + cs.path
}

// Get fetches the current value of the setting.
func (cs *ConfigSetting) Get(ctx context.Context) (*ConfigSettingInfo, error) {
	var info ConfigSettingInfo
	if err := cs.client.get(ctx, cs.path, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get config %s: %w", cs.Name, err)
	}
	return &info, nil
}

// Set updates the setting to the given value.
func (cs *ConfigSetting) Set(ctx context.Context, value string) error {
	body := ConfigSettingInfo{Name: cs.Name, Type: "ConfigSetting", Value: value}
	if err := cs.client.put(ctx, cs.path, nil, body, nil); err != nil {
		return fmt.Errorf("failed to set config %s: %w", cs.Name, err)
	}
	return nil
}

// Override is a proxy for one override under /servers/:id/overrides/:id.
type Override struct {
	client *Client
	path   string

	// ID is the override ID as reported by the API.
	ID string

	// Info is the snapshot from the listing that produced this proxy; zero
	// for lazily constructed proxies.
	Info OverrideInfo
}

// URL returns the absolute URL of the override resource.
func (o *Override) URL() string {
	return o.client.baseURL + apiPrefix + o.path
}

// Get fetches the override details.
func (o *Override) Get(ctx context.Context) (*OverrideInfo, error) {
	var info OverrideInfo
	if err := o.client.get(ctx, o.path, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get override %s: %w", o.ID, err)
	}
	return &info, nil
}

// Update replaces the override.
func (o *Override) Update(ctx context.Context, info OverrideInfo) error {
	if err := o.client.put(ctx, o.path, nil, info, nil); err != nil {
		return fmt.Errorf("failed to update override %s: %w", o.ID, err)
	}
	return nil
}

// Delete removes the override.
func (o *Override) Delete(ctx context.Context) error {
	if err := o.client.delete(ctx, o.path); err != nil {
		return fmt.Errorf("failed to delete override %s: %w", o.ID, err)
	}
	return nil
}
