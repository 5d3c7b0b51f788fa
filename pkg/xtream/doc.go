// Package xtream implements a client for the Xtream Codes style IPTV
// control API (player_api.php).
//
// The client covers the calls a playlist builder needs: authentication,
// category listing, live/VOD stream listing, series listing with episode
// expansion, and media URL construction. It accepts an injected
// *http.Client so callers control timeouts and transport middleware.
//
// Listing calls are deliberately lenient: providers routinely answer with
// an error object, an empty string, or otherwise malformed JSON where an
// array is expected. Those responses decode to an empty result instead of
// an error so that one bad listing never aborts a larger aggregation.
// Transport failures and non-2xx statuses are still reported as errors.
//
// Example:
//
//	base, err := xtream.NormalizeServer("example.com:8080")
//	if err != nil { ... }
//	client := xtream.NewClient(base, "user", "pass")
//	if _, err := client.Authenticate(ctx); err != nil { ... }
//	cats, err := client.GetCategories(ctx, xtream.KindLive)
package xtream
