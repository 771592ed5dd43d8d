package intent

import (
	"strings"

	"github.com/chatfood/chatfood/internal/model/conv"
)

// Keyword buckets backing the heuristic classifier. The buckets mirror the
// routing policy of the LLM classifier so degraded mode keeps the same
// behavior contract.
var cookingWords = []string{
	"how do i cook", "how to cook", "how do i make", "how to make", "how to prepare",
	"how do i prepare", "recipe", "cooking", "baking", "boil", "roast", "marinate",
	"nutrition", "nutritional", "calories", "calorie", "ingredient", "vitamin",
	"benefits of", "is it healthy", "what is in", "how long to cook", "store",
}

var actionWords = []string{
	"order", "cancel", "track", "status", "price", "cost", "how much",
	"deliver", "delivery", "location", "address", "menu", "pay", "payment",
	"deal", "discount", "comment", "review my order", "buy",
}

var namedFoods = []string{
	"pizza", "burger", "sushi", "kebab", "salad", "pasta", "spaghetti",
	"biryani", "curry", "pad thai", "falafel", "sandwich", "taco", "noodle",
	"soup", "steak", "wrap", "nigiri", "maki", "shawarma", "fries",
}

var namedRestaurants = []string{
	"napoli house", "grill town", "tokyo corner", "bangkok bites",
	"green fork", "spice route", "mcdonald", "kfc", "subway",
}

var preferenceWords = []string{
	"something", "suggest", "recommend", "recommendation", "craving",
	"in the mood", "i want", "i'd like", "i would like", "i feel like",
	"spicy", "vegetarian", "vegan", "gluten", "cheap", "light", "sweet",
	"sour", "healthy option", "without", "no onions", "low fat",
}

var foodMarkers = []string{
	"food", "eat", "meal", "dish", "cuisine", "restaurant", "hungry",
	"lunch", "dinner", "breakfast", "snack", "dessert", "drink",
}

// Classify maps raw user text to a module using keyword heuristics. It is
// the deterministic fallback used when the LLM classifier is unavailable
// or returns garbage.
func Classify(text string) conv.Module {
	t := newMatcher(text)
	if t.empty() {
		return conv.ModuleIrrelevant
	}

	cooking := t.matchesAny(cookingWords)
	named := t.matchesAny(namedFoods) || t.matchesAny(namedRestaurants)
	action := t.matchesAny(actionWords)
	preference := t.matchesAny(preferenceWords)

	if !cooking && !named && !preference && !t.matchesAny(foodMarkers) {
		return conv.ModuleIrrelevant
	}

	// Preparation questions win over the naming rule.
	if cooking {
		return conv.ModuleInfo
	}
	// Explicitly naming a food or restaurant implies a service intent,
	// whether or not an action verb is present.
	if named || action {
		return conv.ModuleServices
	}
	if preference {
		return conv.ModuleSuggestion
	}
	return conv.ModuleInfo
}

// matcher matches single keywords against whole words (with a prefix rule
// for plurals and verb forms) and multiword phrases as substrings, so a
// keyword like "eat" never fires inside "weather".
type matcher struct {
	text  string
	words []string
}

func newMatcher(text string) matcher {
	lowered := strings.ToLower(strings.TrimSpace(text))
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	return matcher{text: lowered, words: words}
}

func (m matcher) empty() bool { return m.text == "" }

func (m matcher) matchesAny(keywords []string) bool {
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(m.text, kw) {
				return true
			}
			continue
		}
		for _, w := range m.words {
			if w == kw || (len(kw) >= 4 && strings.HasPrefix(w, kw)) {
				return true
			}
		}
	}
	return false
}
