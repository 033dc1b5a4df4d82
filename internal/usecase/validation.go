package usecase

import "regexp"

// Conflict messages surfaced verbatim to clients. Credential and
// blocked-account wording lives in the transport layer, next to the
// status codes it is paired with.
const (
	msgUsernameTaken = "Username already exists"
	msgEmailTaken    = "Email already in use"
	msgHomeNameTaken = "Elder home name already exists"
)

var (
	lettersOnlyPattern   = regexp.MustCompile(`^[A-Za-z ]+$`)
	usernamePattern      = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	lowerUsernamePattern = regexp.MustCompile(`^[a-z]+$`)
	digitsPattern        = regexp.MustCompile(`^[0-9]+$`)
	contactPattern       = regexp.MustCompile(`^[0-9]{10}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)
)
