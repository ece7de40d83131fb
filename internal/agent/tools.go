package agent

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/roach88/murmur/internal/entry"
)

// Tool names understood by the response parser.
const (
	ToolCreateEntries   = "create_entries"
	ToolUpdateEntries   = "update_entries"
	ToolCompleteEntries = "complete_entries"
	ToolArchiveEntries  = "archive_entries"
)

// Tools returns the function tools offered with every request.
func Tools() []openai.Tool {
	return []openai.Tool{
		functionTool(ToolCreateEntries, "Create new entries from user intent", createSchema()),
		functionTool(ToolUpdateEntries, "Update one or more existing entries", updateSchema()),
		functionTool(ToolCompleteEntries, "Mark one or more existing entries as completed", mutationSchema("entries")),
		functionTool(ToolArchiveEntries, "Archive one or more existing entries", mutationSchema("entries")),
	}
}

func functionTool(name, description string, params jsonschema.Definition) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

func createSchema() jsonschema.Definition {
	item := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"content":     {Type: jsonschema.String, Description: "Cleaned, concise entry content"},
			"category":    {Type: jsonschema.String, Enum: categoryNames()},
			"source_text": {Type: jsonschema.String, Description: "Relevant source span from transcript"},
			"summary":     {Type: jsonschema.String, Description: "Card title, 10 words or fewer"},
			"priority":    {Type: jsonschema.Integer},
			"due_date":    {Type: jsonschema.String},
			"cadence":     {Type: jsonschema.String, Enum: cadenceNames()},
		},
		Required: []string{"content", "category", "source_text", "summary"},
	}
	return arrayOf("entries", item)
}

func updateSchema() jsonschema.Definition {
	fields := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"content":      {Type: jsonschema.String},
			"summary":      {Type: jsonschema.String},
			"category":     {Type: jsonschema.String, Enum: categoryNames()},
			"priority":     {Type: jsonschema.Integer},
			"due_date":     {Type: jsonschema.String},
			"cadence":      {Type: jsonschema.String, Enum: cadenceNames()},
			"status":       {Type: jsonschema.String, Enum: []string{"active", "snoozed", "completed", "archived"}},
			"snooze_until": {Type: jsonschema.String},
		},
	}
	item := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"id":     {Type: jsonschema.String},
			"fields": fields,
			"reason": {Type: jsonschema.String, Description: "Why this update is being applied"},
		},
		Required: []string{"id", "fields", "reason"},
	}
	return arrayOf("updates", item)
}

func mutationSchema(key string) jsonschema.Definition {
	item := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"id":     {Type: jsonschema.String},
			"reason": {Type: jsonschema.String},
		},
		Required: []string{"id", "reason"},
	}
	return arrayOf(key, item)
}

// arrayOf wraps item as {key: [item...]} with key required.
func arrayOf(key string, item jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			key: {Type: jsonschema.Array, Items: &item},
		},
		Required: []string{key},
	}
}

func categoryNames() []string {
	names := make([]string, len(entry.Categories))
	for i, c := range entry.Categories {
		names[i] = string(c)
	}
	return names
}

func cadenceNames() []string {
	names := make([]string, len(entry.Cadences))
	for i, c := range entry.Cadences {
		names[i] = string(c)
	}
	return names
}
