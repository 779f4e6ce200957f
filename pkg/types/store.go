package types

import "context"

// Store is the versioned-file backend holding the persisted collection
// as a single opaque blob plus a revision token.
//
// An empty revision means the blob does not exist yet: ReadCollection
// reports it for an absent file, and WriteCollection interprets it as
// "create, no precondition". A non-empty revision on write is a
// compare-and-swap precondition; writing with a stale one fails with a
// *ConflictError. The token is the sole concurrency control — there are
// no locks and no transactions beyond the atomic single-blob commit.
type Store interface {
	// ReadCollection returns the raw persisted blob and its current
	// revision. An absent blob is reported as ("[]", "") rather than an
	// error.
	ReadCollection(ctx context.Context) (raw []byte, rev string, err error)

	// WriteCollection commits the full blob under the given revision
	// precondition. message is the human-readable audit description
	// recorded with the commit. Returns the new revision.
	WriteCollection(ctx context.Context, raw []byte, rev string, message string) (newRev string, err error)
}
