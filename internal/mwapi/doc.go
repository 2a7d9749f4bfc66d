// Package mwapi provides request plumbing for the MediaWiki action API.
//
// It is deliberately thin: it knows how to address a site, encode parameters the way
// the action API expects them, and decode the JSON envelope (including the API's own
// error object). Higher-level packages decide which actions to call.
//
// # Optional flags
//
// Boolean parameters in the action API are true when present and false when absent,
// regardless of their value. Use Optional together with Params.SetOptional so a false
// value is omitted instead of being sent as a literal:
//
//	p := mwapi.Params{}
//	p.SetOptional("reset", mwapi.Optional(true)) // reset=1
//	p.SetOptional("curtimestamp", mwapi.Optional(false)) // omitted
package mwapi
