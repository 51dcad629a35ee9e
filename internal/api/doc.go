// Package api defines the wire types exchanged with clients and the service
// layer that translates them to and from the domain packages. HTTP routing
// lives in the daemon package; everything here is transport-agnostic.
package api
