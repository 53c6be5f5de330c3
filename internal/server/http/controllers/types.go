package controllers

// Common request/response types for HTTP controllers

// sendReq represents a request to append a message. The stored key is
// derived server-side from the token's subject; callers never supply it.
type sendReq struct {
	Token   string  `json:"token"`
	Message *string `json:"message"`
}

// listReq represents a request for the full log snapshot.
type listReq struct {
	Token  string `json:"token"`
	Filter string `json:"filter,omitempty"`
}

// fromReq represents a request for the messages after a marker key.
type fromReq struct {
	Token    string  `json:"token"`
	StartKey *string `json:"start_key"`
	Filter   string  `json:"filter,omitempty"`
}

// auditReq represents a request for recent audit entries.
type auditReq struct {
	Token string `json:"token"`
	Limit int    `json:"limit,omitempty"`
}

// messageJSON is the wire form of one stored message.
type messageJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
