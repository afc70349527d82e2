// Package pdns provides a client for the PowerDNS Authoritative server
// HTTP management API.
//
// The API is exposed as a tree of resource proxies: a Client owns the
// transport (base URL, API key, HTTP client) and hands out Server proxies,
// which in turn hand out Zone, ConfigSetting and Override proxies. Every
// proxy wraps nothing but a URL; constructing one never touches the network,
// and each accessor method issues at most one HTTP request.
//
// # Usage
//
// Create a client with the server URL and API key:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := pdns.NewClient(
//		"http://localhost:8081",
//		"your-api-key",
//		logger,
//		pdns.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List zones on the default server instance
//	ctx := context.Background()
//	zones, err := client.Server("localhost").Zones(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Transport failures are returned wrapped and unretried. API failures
// (non-2xx responses) are returned as *APIError carrying the status code,
// the decoded PowerDNS error message and the raw body:
//
//	var apiErr *pdns.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// zone does not exist
//	}
//
// Endpoints the upstream server documents but does not actually serve
// (currently only the failure log) return ErrNotSupported instead of
// silently succeeding.
package pdns
