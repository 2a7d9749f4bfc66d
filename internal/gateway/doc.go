// Package gateway exposes a user's MediaWiki preferences over a small local HTTP API,
// so tools that cannot handle edit tokens can still read and write options.
//
//	GET    /v1/options         current user info and preferences
//	PUT    /v1/options/{key}   body {"value": "..."}; {"value": null} deletes
//	DELETE /v1/options/{key}
//	POST   /v1/options:reset   restore all preferences to site defaults
package gateway
