package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Request layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownType   = "E_UNKNOWN_TYPE"
	ErrOutOfBounds   = "E_OUT_OF_BOUNDS"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrRateLimit     = "E_RATE_LIMIT"
	ErrSaveFailed    = "E_SAVE_FAILED"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrUnknownType:     {},
	ErrOutOfBounds:     {},
	ErrInvalidTarget:   {},
	ErrRateLimit:       {},
	ErrSaveFailed:      {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
