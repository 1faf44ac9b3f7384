// Package common contains shared constants and sentinel errors used across
// GophNotes components.
package common

import "time"

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer
// access token on outbound requests.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the access token inside the authorization header.
const BearerScheme = "bearer"

// Collection names shared by client and server.
const (
	CollectionActive   = "active"
	CollectionArchived = "archived"
	CollectionTrashed  = "trashed"
)

// Collections lists every note collection in display order.
var Collections = []string{CollectionActive, CollectionArchived, CollectionTrashed}

// IsCollection reports whether name is one of the known collections.
func IsCollection(name string) bool {
	switch name {
	case CollectionActive, CollectionArchived, CollectionTrashed:
		return true
	}
	return false
}

// QuotaCooldown is how long a client waits before trying remote sign-in
// again after the server reported an exhausted quota.
const QuotaCooldown = 24 * time.Hour
