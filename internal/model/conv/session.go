package conv

import "time"

// Session captures one end-user conversation with the assistant.
type Session struct {
	ID        string            `json:"id"`
	Active    Module            `json:"activeModule,omitempty"`
	Threads   map[Module]string `json:"-"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Thread returns the memory thread token for the given module, or ""
// when the module keeps no cross-turn memory.
func (s Session) Thread(m Module) string {
	if s.Threads == nil {
		return ""
	}
	return s.Threads[m]
}
