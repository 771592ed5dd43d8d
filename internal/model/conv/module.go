package conv

// Module identifies one of the assistant's conversational capabilities.
type Module string

const (
	// ModuleNone marks a session with no bound module.
	ModuleNone Module = ""
	// ModuleInfo answers factual food questions from the knowledge base.
	ModuleInfo Module = "food_info"
	// ModuleSuggestion recommends dishes matching user preferences.
	ModuleSuggestion Module = "food_suggestion"
	// ModuleServices handles catalog search and order actions.
	ModuleServices Module = "food_services"
	// ModuleIrrelevant marks a request outside the food domain.
	ModuleIrrelevant Module = "irrelevant"
)

// Valid reports whether m names a dispatchable module.
func (m Module) Valid() bool {
	switch m {
	case ModuleInfo, ModuleSuggestion, ModuleServices:
		return true
	default:
		return false
	}
}

// Stateful reports whether the module keeps cross-turn memory and
// therefore needs a thread token at session start.
func (m Module) Stateful() bool {
	return m == ModuleSuggestion || m == ModuleServices
}
