// Package auth resolves who is calling: an authenticated user backed by an
// external session, a returning guest carrying a signed cookie, or nobody.
//
// Resolution order:
//   - A session with a user always wins. The guest cookie is left untouched
//     and a fresh bearer token is minted for the session user.
//   - Otherwise a valid guest cookie is rotated: a new token is issued for the
//     same guest id and name and the cookie is rewritten with a full lifetime.
//   - An invalid or expired guest cookie is cleared and the request resolves
//     to no identity. Resolve never returns an error.
//
// Sign in:
//   - CallbackBridge maps OAuth profile and credentials outcomes onto accounts
//     stored through bun, then StoreSessionProvider persists an
//     ExternalSession and sets the session cookie.
//
// Transport:
//   - AuthController exposes refresh, guest, callback, sign out and me routes
//     on any go-router Router. middleware/identityware verifies bearer tokens.
package auth
