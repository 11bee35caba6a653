package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemahub/console"
)

func TestExportJSONSchema(t *testing.T) {
	doc, err := ExportJSONSchema(blogSchema())
	require.NoError(t, err)

	assert.Equal(t, "post", doc["title"])
	assert.Equal(t, "object", doc["type"])

	properties, ok := doc["properties"].(map[string]any)
	require.True(t, ok)

	// reserved and system fields are excluded
	assert.NotContains(t, properties, "id")
	assert.NotContains(t, properties, "created_at")
	assert.NotContains(t, properties, "internal_note")

	title, ok := properties["title"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", title["type"])

	count, ok := properties["view_count"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", count["type"])

	status, ok := properties["status"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"draft", "published"}, status["enum"])

	tags, ok := properties["tags"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", tags["type"])

	author, ok := properties["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", author["type"])

	// relations and optional fields stay out of required
	required, ok := doc["required"].([]string)
	require.True(t, ok)
	assert.Contains(t, required, "title")
	assert.Contains(t, required, "status")
	assert.NotContains(t, required, "body")
	assert.NotContains(t, required, "tags")
	assert.NotContains(t, required, "author")
}

func TestExportJSONSchema_Nil(t *testing.T) {
	_, err := ExportJSONSchema(nil)
	assert.True(t, console.IsSchemaError(err))
}

func TestValidateRecord(t *testing.T) {
	schema := blogSchema()

	valid := console.Content{
		"title":    "Hello",
		"status":   "draft",
		"featured": true,
	}
	assert.NoError(t, ValidateRecord(schema, valid))

	invalidType := console.Content{
		"title":    123,
		"status":   "draft",
		"featured": true,
	}
	err := ValidateRecord(schema, invalidType)
	require.Error(t, err)
	assert.True(t, console.IsValidationError(err))

	invalidEnum := console.Content{
		"title":    "Hello",
		"status":   "archived",
		"featured": true,
	}
	assert.Error(t, ValidateRecord(schema, invalidEnum))

	missingRequired := console.Content{
		"status":   "draft",
		"featured": true,
	}
	assert.Error(t, ValidateRecord(schema, missingRequired))
}
