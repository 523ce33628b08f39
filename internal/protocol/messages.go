package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	Seed        uint32 `json:"seed"`
	ChunkSize   int    `json:"chunk_size"`
	Height      int    `json:"height"`
	FieldOfView int    `json:"field_of_view"`
	TickRateHz  int    `json:"tick_rate_hz"`
}

// POS (client -> server): viewer moved. Coordinates are fractional blocks.
type PosMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Pos             [3]float64 `json:"pos"`
}

// GET_BLOCK (client -> server)
type GetBlockMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Pos             [3]int `json:"pos"`
}

// BLOCK (server -> client): reply to GET_BLOCK.
type BlockMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Pos             [3]int `json:"pos"`
	Block           uint16 `json:"block"`
}

// SET_BLOCK (client -> server). Notify asks neighbors to refresh, matching
// an in-game edit; without it the write is silent, as during import.
type SetBlockMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Pos             [3]int `json:"pos"`
	Block           uint16 `json:"block"`
	Notify          bool   `json:"notify"`
}

// PICK (client -> server): cast a ray through the visible chunks.
type PickMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Origin          [3]float64 `json:"origin"`
	Dir             [3]float64 `json:"dir"`
}

// HIT (server -> client): reply to PICK.
type HitMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Hit             bool       `json:"hit"`
	Pos             [3]float64 `json:"pos,omitempty"`
	Side            string     `json:"side,omitempty"`
}

// SAVE (client -> server)
type SaveMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// SAVED (server -> client): reply to SAVE.
type SavedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
}

// ACK (server -> client): generic accept/reject for client requests.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}
