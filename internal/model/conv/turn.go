package conv

// TurnReply is the uniform result of submitting one user turn.
type TurnReply struct {
	// Notice carries the "module selected" line emitted when the turn
	// caused a fresh binding. Empty otherwise.
	Notice string `json:"notice,omitempty"`
	// Text is the assistant's reply for this turn.
	Text string `json:"reply"`
	// Module names the module that produced the reply, if any.
	Module Module `json:"module,omitempty"`
}
