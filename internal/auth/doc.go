// Package auth validates bearer tokens and gates operations by role bitmask.
//
// The Verifier is the authentication collaborator: it checks an HS256 JWT's
// signature and expiry and extracts a TokenRecord holding the subject and a
// role bitmask. Allow is the authorization gate: a pure bitwise-AND
// intersection test between the token's roles and an operation's required
// roles. Everything downstream consumes the already-validated TokenRecord
// and never touches raw token material.
package auth
