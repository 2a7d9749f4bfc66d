package edittoken

import (
	"errors"
	"fmt"

	"github.com/florianilch/optsync/internal/mwapi"
)

// ErrMalformedToken is the cause of an AcquisitionError when the API answered without
// a usable token.
var ErrMalformedToken = errors.New("malformed token response")

// ErrAnonymousSession is the cause of an AcquisitionError when the API handed out the
// anonymous token, which cannot authorize writes.
var ErrAnonymousSession = errors.New("session is not logged in")

// AcquisitionError reports that no token could be fetched for an identity.
type AcquisitionError struct {
	Identity mwapi.Identity
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring edit token for %s: %v", e.Identity, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// MissingTokenError reports that a fetch succeeded but the store still has no token
// for the identity. It indicates a broken Store implementation.
type MissingTokenError struct {
	Identity mwapi.Identity
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("no edit token stored for %s after acquisition", e.Identity)
}
