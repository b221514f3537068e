package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "/api/v1", parsed.BasePath)
	assert.Contains(t, parsed.Paths, "/exams/{id}/hall-tickets")
	assert.Contains(t, parsed.Paths, "/chatbot/query")
	assert.Contains(t, parsed.Paths, "/library/issues")
}
