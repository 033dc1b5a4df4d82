package domain

// Principal is the authentication guard contract every account kind
// satisfies. Guards only need the identity and the block flag.
type Principal interface {
	PrincipalID() string
	Blocked() bool
}
