package cart

import (
	"encoding/json"
	"fmt"

	"gofalre.io/storefront/models"
)

// encodeItems writes the item list in the same shape the browser widget kept
// in localStorage: [{"name":..,"price":..,"img":..,"qty":..}].
func encodeItems(items []models.LineItem) ([]byte, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart items: %w", err)
	}
	return data, nil
}

func decodeItems(data []byte) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}
