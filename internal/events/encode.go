package events

import (
	"encoding/json"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Encode returns the JSON form every sink sends
func Encode(event model.Event) ([]byte, error) {
	return json.Marshal(event)
}
