// Package tokenstore caches short-lived edit tokens, one per site identity.
//
// A single Memory instance is meant to be shared by every client in the process and
// passed in explicitly; there is no package-level instance.
package tokenstore
