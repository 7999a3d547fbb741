package fingerprint

import "errors"

// ErrInvalidMAC indicates a target MAC address could not be normalized.
var ErrInvalidMAC = errors.New("invalid MAC address format")
