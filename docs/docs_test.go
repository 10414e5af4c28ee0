package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerInfo_ReadDoc(t *testing.T) {
	var doc struct {
		Info struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Version     string `json:"version"`
		} `json:"info"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "Taskflow API", doc.Info.Title)
	assert.Equal(t, "Personal task manager: filtering, sorting, due-date labels and completion stats.", doc.Info.Description)
	assert.Equal(t, "1.0", doc.Info.Version)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths, "/tasks")
	assert.Contains(t, doc.Paths, "/tasks/completed")
	assert.Contains(t, doc.Paths, "/categories/{id}")
}
