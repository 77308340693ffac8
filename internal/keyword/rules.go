// Package keyword classifies merchant strings into spending categories
// using ordered substring keyword lists. It is the local, always-available
// fallback behind the authoritative classifier.
package keyword

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linusng/cardsense/internal/model"
)

// Rule associates one category with the keywords that claim it. Rules are
// evaluated in slice order; the first keyword hit wins, so a merchant
// string matching two categories resolves to whichever rule comes first.
type Rule struct {
	Category model.CategoryID `yaml:"category"`
	Keywords []string         `yaml:"keywords"`
}

// DefaultRules returns the built-in category rules in priority order.
// General is deliberately absent: it is the fallthrough, not a rule.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: model.CategoryDining,
			Keywords: []string{
				"RESTAURANT", "STARBUCKS", "MCDONALD", "KFC", "BURGER",
				"PIZZA", "CAFE", "COFFEE", "BAKERY", "TOAST", "KOPITIAM",
				"HAWKER", "FOOD", "SUSHI", "RAMEN", "DINING", "BISTRO",
				"YA KUN", "DIN TAI FUNG", "JOLLIBEE", "SUBWAY",
			},
		},
		{
			Category: model.CategoryTransport,
			Keywords: []string{
				"GRAB", "GOJEK", "COMFORT", "TADA", "RYDE", "SMRT",
				"TRANSIT", "EZLINK", "EZ-LINK", "BUS", "MRT", "TAXI",
				"PARKING", "CARPARK",
			},
		},
		{
			Category: model.CategoryOnline,
			Keywords: []string{
				"AMAZON", "LAZADA", "SHOPEE", "QOO10", "ALIEXPRESS",
				"TAOBAO", "EZBUY", "ZALORA", "IHERB", "EBAY", "PAYPAL",
				"NETFLIX", "SPOTIFY", "APPLE.COM", "GOOGLE", "STEAM",
			},
		},
		{
			Category: model.CategoryGroceries,
			Keywords: []string{
				"NTUC", "FAIRPRICE", "COLD STORAGE", "GIANT", "SHENG SIONG",
				"DON DON DONKI", "MARKETPLACE", "REDMART", "SUPERMARKET",
				"PRIME MART", "U STARS", "GROCER",
			},
		},
		{
			Category: model.CategoryPetrol,
			Keywords: []string{
				"SHELL", "ESSO", "CALTEX", "SPC", "SINOPEC", "PETROL",
				"GAS STATION",
			},
		},
		{
			Category: model.CategoryBills,
			Keywords: []string{
				"SINGTEL", "STARHUB", "M1 LIMITED", "CIRCLES.LIFE",
				"SP SERVICES", "SP GROUP", "SENOKO", "GENECO", "TUAS POWER",
				"UTILITIES", "INSURANCE", "AIA", "PRUDENTIAL", "GREAT EASTERN",
			},
		},
		{
			Category: model.CategoryTravel,
			Keywords: []string{
				"SINGAPORE AIR", "SINGAPOREAIR", "SCOOT", "JETSTAR", "AIRASIA",
				"CATHAY", "EMIRATES", "QANTAS", "AGODA", "BOOKING.COM",
				"EXPEDIA", "TRIP.COM", "AIRBNB", "HOTEL", "AIRLINES", "KLOOK",
			},
		},
	}
}

// LoadRules reads category rules from a YAML file. The file holds an
// ordered list of {category, keywords} entries; order in the file is the
// evaluation priority.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := validateRules(rules); err != nil {
		return nil, err
	}

	return rules, nil
}

func validateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("rules file defines no categories")
	}
	for i, rule := range rules {
		if !rule.Category.Valid() {
			return fmt.Errorf("rule %d: unknown category %q", i, rule.Category)
		}
		if rule.Category == model.CategoryGeneral {
			return fmt.Errorf("rule %d: %q is the fallthrough category and cannot have keywords", i, rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %d: category %q has no keywords", i, rule.Category)
		}
	}
	return nil
}
