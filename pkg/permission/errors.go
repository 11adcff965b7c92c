package permission

import "errors"

// ErrUnknownPermission is returned when a set contains a key outside the
// fixed permission key set.
var ErrUnknownPermission = errors.New("permission.unknown_key")
