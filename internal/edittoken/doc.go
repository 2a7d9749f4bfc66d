// Package edittoken acquires CSRF edit tokens for MediaWiki write actions.
//
// Tokens are fetched lazily, the first time a write needs one, and cached per site in
// a tokenstore.Store. Concurrent callers that miss the cache for the same site share a
// single in-flight fetch. Tokens are never refreshed or invalidated here: a stale token
// only shows up as a rejected write.
package edittoken
