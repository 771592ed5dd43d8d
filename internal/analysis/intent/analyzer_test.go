package intent

import (
	"testing"

	"github.com/chatfood/chatfood/internal/model/conv"
)

func TestClassifyCookingQuestionWinsOverNamedFood(t *testing.T) {
	got := Classify("How do I cook rice?")
	if got != conv.ModuleInfo {
		t.Fatalf("expected food_info, got %s", got)
	}
}

func TestClassifyNamedFoodWithActionVerb(t *testing.T) {
	for _, text := range []string{
		"I want to order a pepperoni pizza",
		"Cancel my sushi order",
		"How much is a burger at Grill Town?",
	} {
		if got := Classify(text); got != conv.ModuleServices {
			t.Fatalf("expected food_services for %q, got %s", text, got)
		}
	}
}

func TestClassifyNamedRestaurantAlone(t *testing.T) {
	if got := Classify("Show me the menu at Napoli House"); got != conv.ModuleServices {
		t.Fatalf("expected food_services, got %s", got)
	}
}

func TestClassifyPreferencesWithoutNamedFood(t *testing.T) {
	if got := Classify("I'm craving something spicy and vegetarian"); got != conv.ModuleSuggestion {
		t.Fatalf("expected food_suggestion, got %s", got)
	}
}

func TestClassifyUnrelatedText(t *testing.T) {
	for _, text := range []string{
		"What's the weather like tomorrow?",
		"Help me write a resignation letter",
		"",
	} {
		if got := Classify(text); got != conv.ModuleIrrelevant {
			t.Fatalf("expected irrelevant for %q, got %s", text, got)
		}
	}
}

func TestClassifyNutritionGoesToInfo(t *testing.T) {
	if got := Classify("How many calories are in an avocado?"); got != conv.ModuleInfo {
		t.Fatalf("expected food_info, got %s", got)
	}
}
