package auth

// Allow reports whether a token's role bitmask satisfies an operation's
// required bitmask: access is granted iff the two intersect. Pure function;
// expiry is the verifier's concern, not the gate's.
func Allow(rec TokenRecord, required uint32) bool {
	return required&rec.Roles != 0
}
