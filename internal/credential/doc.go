// Package credential persists the long-lived session credential used to authenticate
// against a MediaWiki site: an OAuth 2 refresh token, or an owner-only access token.
//
// Backends and their tradeoffs:
//   - File: local file with atomic writes and 0600 permissions
//   - Env: read-only environment variable (secrets injected by the environment)
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager,
//     Linux Secret Service)
//   - DynamoDB: shared table, for several hosts syncing the same account
//
// Refresh tokens rotate, so OAuth sessions need a writable backend. Short-lived edit
// tokens are not stored here; see package tokenstore.
package credential
