package docs

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string `json:"basePath"`
		Paths    map[string]map[string]struct {
			Parameters []struct {
				Name string `json:"name"`
				In   string `json:"in"`
			} `json:"parameters"`
			Responses map[string]any `json:"responses"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)

	var mineParams []string
	for _, p := range doc.Paths["/orders/mine"]["get"].Parameters {
		mineParams = append(mineParams, p.In+":"+p.Name)
	}
	assert.ElementsMatch(t, []string{"query:page", "query:limit"}, mineParams)

	assert.Contains(t, doc.Paths["/listings/{id}/status"]["put"].Responses, "409")
}

func TestDocsFileIsNotMarkedGenerated(t *testing.T) {
	src, err := os.ReadFile("docs.go")
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(src), "DO NOT EDIT"))
}
