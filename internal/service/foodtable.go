package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// FoodTable is a read-only per-unit nutrition database keyed by normalized name.
type FoodTable map[string]model.PerUnit

var builtinFoods = FoodTable{
	"egg":            {Calories: 78, Protein: 6, Carbs: 0.6, Fat: 5.3},
	"boiled egg":     {Calories: 78, Protein: 6, Carbs: 0.6, Fat: 5.3},
	"fried egg":      {Calories: 90, Protein: 6.2, Carbs: 0.4, Fat: 7},
	"bread":          {Calories: 75, Protein: 2, Carbs: 13, Fat: 1},
	"toast":          {Calories: 75, Protein: 2, Carbs: 13, Fat: 1},
	"chicken breast": {Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	"rice":           {Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
	"banana":         {Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4},
	"apple":          {Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3},
	"milk":           {Calories: 60, Protein: 3.2, Carbs: 4.8, Fat: 3.2},
}

// DefaultFoodTable returns a copy of the built-in table.
func DefaultFoodTable() FoodTable {
	t := make(FoodTable, len(builtinFoods))
	for k, v := range builtinFoods {
		t[k] = v
	}
	return t
}

// Lookup finds name by exact normalized key.
func (t FoodTable) Lookup(name string) (model.PerUnit, bool) {
	v, ok := t[model.NormalizeFoodName(name)]
	return v, ok
}

// LoadFoodTable returns the built-in table extended by the YAML file at path.
// Rows in the file override built-in rows with the same name. An empty path
// returns the built-in table.
func LoadFoodTable(path string) (FoodTable, error) {
	table := DefaultFoodTable()
	if path == "" {
		return table, nil
	}

	rows, err := ReadFoodRows(path)
	if err != nil {
		return nil, err
	}
	for name, perUnit := range rows {
		table[name] = perUnit
	}
	return table, nil
}

// ReadFoodRows parses a YAML file of per-unit foods keyed by name. Names are
// normalized and blank names are dropped.
//
//	oatmeal:
//	  calories: 150
//	  protein: 5
//	  carbs: 27
//	  fat: 3
func ReadFoodRows(path string) (map[string]model.PerUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read food table: %w", err)
	}

	var raw map[string]model.PerUnit
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse food table %s: %w", path, err)
	}

	rows := make(map[string]model.PerUnit, len(raw))
	for name, perUnit := range raw {
		key := model.NormalizeFoodName(name)
		if key == "" {
			continue
		}
		rows[key] = perUnit
	}
	return rows, nil
}
