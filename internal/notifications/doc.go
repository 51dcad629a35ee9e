// Package notifications delivers workflow email via a mail relay.
//
// The default implementation posts JSON messages to the relay endpoint
// configured in config.toml and gracefully degrades to a no-op when no
// endpoint is set. Delivery is best-effort; workflow code depends only on
// the simple Service interface and never treats a delivery failure as a
// transition failure.
package notifications
