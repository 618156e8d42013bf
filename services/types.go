package services

// CompareRequest asks a party to compare its private value against a
// public threshold.
type CompareRequest struct {
	Round     int    `json:"round"`
	Threshold uint64 `json:"threshold"`
}

// CompareResponse carries the single comparison bit. This is the only
// information about the party's value that ever leaves the party service.
type CompareResponse struct {
	Bit bool `json:"bit"`
}

// PartyInfoResponse describes a party endpoint without revealing its
// value.
type PartyInfoResponse struct {
	ID   int   `json:"id"`
	Bits uint8 `json:"bits"`
}

// ErrorResponse reports a request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
