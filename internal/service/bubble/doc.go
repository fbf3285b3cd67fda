// Package bubble implements the per-bubble state store.
//
// The service layer owns isolation between bubble identifiers: each identifier
// gets its own exclusive-access guard so concurrent re-initializations of the
// same bubble serialize while different bubbles never block each other. It
// depends on the Repository interface defined in this package and should never
// import from api/.
//
// Repository implementations live in repository/memory/ and
// repository/postgres/.
package bubble
