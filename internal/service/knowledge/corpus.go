package knowledge

// SeedCorpus provides a small built-in food-facts corpus used when no
// corpus file is configured. Entries are short, self-contained passages in
// the style of a food reference book.
func SeedCorpus() []Entry {
	return []Entry{
		{
			ID:      "rice-cooking",
			Content: "To cook white rice, rinse it until the water runs clear, then simmer one cup of rice in two cups of water, covered, for about 18 minutes. Let it rest off the heat for five minutes before fluffing. Brown rice needs roughly 40 minutes and a little more water.",
		},
		{
			ID:      "rice-storage",
			Content: "Cooked rice should be cooled quickly and refrigerated within an hour; it keeps for up to four days. Reheat rice until steaming hot to avoid Bacillus cereus food poisoning.",
		},
		{
			ID:      "garlic",
			Content: "Garlic contains allicin, a sulfur compound released when cloves are crushed or chopped. Letting crushed garlic rest for ten minutes before cooking preserves more of its beneficial compounds. Garlic may modestly lower blood pressure and cholesterol.",
		},
		{
			ID:      "grapefruit-interaction",
			Content: "Grapefruit and grapefruit juice interfere with enzymes that break down several medications, including some statins and blood pressure drugs. People taking these medications should ask a doctor before eating grapefruit.",
		},
		{
			ID:      "eggs",
			Content: "Eggs are a complete protein with about 6 grams per large egg. Store eggs in their carton in the coldest part of the refrigerator, not the door, and use them within three to five weeks. A fresh egg sinks in water; a stale one floats.",
		},
		{
			ID:      "pasta-cooking",
			Content: "Cook dried pasta in abundantly salted boiling water, stirring in the first minute to prevent sticking. Taste a minute before the package time for al dente texture. Reserve a cup of the starchy cooking water to loosen and bind sauces.",
		},
		{
			ID:      "spinach-iron",
			Content: "Spinach is rich in iron and folate, but its oxalic acid binds part of the iron. Pairing spinach with vitamin C rich foods such as citrus or peppers improves iron absorption. Light cooking reduces oxalates.",
		},
		{
			ID:      "olive-oil",
			Content: "Extra virgin olive oil is high in monounsaturated fat and polyphenols. It is fine for everyday sauteing; its smoke point around 190 to 210 degrees Celsius is higher than commonly believed. Store it away from light and heat.",
		},
		{
			ID:      "beans-soaking",
			Content: "Dried beans cook more evenly after an overnight soak in cold water, or a quick soak of one hour after boiling briefly. Salting the soaking water seasons the beans and softens their skins. Discard the soaking water to reduce gas-causing sugars.",
		},
		{
			ID:      "fish-doneness",
			Content: "Fish is done when its flesh turns opaque and flakes easily, at an internal temperature of about 60 degrees Celsius. Thin fillets cook in minutes; overcooking dries them out. Rest fish briefly before serving.",
		},
	}
}
