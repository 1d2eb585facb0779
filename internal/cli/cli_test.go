package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordsYAMLList(t *testing.T) {
	data := []byte(`
- id: dana
  name: Dana Levi
  party_size: 3
  side: bride
  confirmed: true
- id: noa
  name: Noa Bar
  confirmed: null
`)
	records, err := ParseRecords(data, ".yaml")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "dana", records[0].ID)
	assert.Equal(t, 3, records[0].PartySize)
	require.NotNil(t, records[0].Confirmed)
	assert.True(t, *records[0].Confirmed)
	assert.Nil(t, records[1].Confirmed)
}

func TestParseRecordsYAMLWrapped(t *testing.T) {
	data := []byte(`---
attendees:
  - id: avi
    name: Avi Cohen
    confirmed: false
`)
	records, err := ParseRecords(data, ".yml")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Confirmed)
	assert.False(t, *records[0].Confirmed)
}

func TestParseRecordsJSON(t *testing.T) {
	records, err := ParseRecords([]byte(`[{"id":"a","name":"A","party_size":2}]`), ".json")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].PartySize)

	records, err = ParseRecords([]byte(`{"attendees":[{"id":"b","name":"B"}]}`), ".JSON")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)

	_, err = ParseRecords([]byte(`{"attendees":`), ".json")
	assert.Error(t, err)
}

func TestParseRecordsEmpty(t *testing.T) {
	records, err := ParseRecords([]byte(""), ".yaml")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEventPath(t *testing.T) {
	c := &Config{}
	_, err := c.EventPath()
	assert.Error(t, err)

	c.EventID = "summer wedding"
	path, err := c.EventPath()
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/events/summer%20wedding", path)
}

func TestAPIErrorString(t *testing.T) {
	e := &APIError{Code: "TABLE_NOT_FOUND", Message: "Table not found"}
	assert.Equal(t, "Table not found (TABLE_NOT_FOUND)", e.String())

	e = &APIError{
		Code:    "CAPACITY_EXCEEDED",
		Message: "table is full",
		Details: map[string]any{"needed": 3, "available": 2},
	}
	assert.Equal(t, "table is full (CAPACITY_EXCEEDED: available=2, needed=3)", e.String())
}
