package redis

import (
	"fmt"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Key prefix for all seating data
const keyPrefix = "seating"

// arrangementKey returns the Redis key for an event's arrangement
func arrangementKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:arrangement:%s", keyPrefix, eventID)
}

// attendeesKey returns the Redis key for the LIST of an event's attendees
func attendeesKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:attendees:%s", keyPrefix, eventID)
}

// viewStateKey returns the Redis key for an event's canvas view state
func viewStateKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:viewstate:%s", keyPrefix, eventID)
}
