// Package useroption reads and writes a user's MediaWiki preferences.
//
// Reads need no edit token. Writes and deletes first obtain one through an acquirer
// (fetching it if the process has none cached for the site), post the change, and only
// report success when the server acknowledges it with the literal status "success".
// Nothing is retried: a rejected write, including one caused by an expired token, is
// returned to the caller as a *WriteRejectedError.
package useroption
