package scopetree_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/halstead/pkg/scopetree"
)

func TestValidate_ValidDocuments(t *testing.T) {
	t.Parallel()

	inputs := map[scopetree.Format]string{
		scopetree.FormatJSON: projectJSON,
		scopetree.FormatYAML: projectYAML,
		scopetree.FormatTOML: projectTOML,
	}

	for format, input := range inputs {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			result, err := scopetree.Validate([]byte(input), format)
			require.NoError(t, err)
			assert.True(t, result.Valid(), "%+v", result.Violations)
		})
	}
}

func TestValidate_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing id", `{"kind": "project"}`, "(root)"},
		{"empty id", `{"id": ""}`, "id"},
		{"negative value", `{"id": "a", "values": {"total_operands": -1}}`, "values.total_operands"},
		{"string value", `{"id": "a", "values": {"total_operands": "3"}}`, "values.total_operands"},
		{"unknown metric", `{"id": "a", "values": {"cyclomatic": 1}}`, "values"},
		{"unknown property", `{"id": "a", "owner": "me"}`, "(root)"},
		{"nested child", `{"id": "p", "children": [{"kind": "file"}]}`, "children.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := scopetree.Validate([]byte(tt.input), scopetree.FormatJSON)
			require.NoError(t, err)
			require.False(t, result.Valid())

			fields := make([]string, 0, len(result.Violations))
			for _, v := range result.Violations {
				fields = append(fields, v.Field)
				assert.NotEmpty(t, v.Description)
			}

			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_ParseError(t *testing.T) {
	t.Parallel()

	_, err := scopetree.Validate([]byte(`{"id":`), scopetree.FormatJSON)
	require.ErrorIs(t, err, scopetree.ErrInvalidDocument)

	_, err = scopetree.Validate([]byte(`{}`), scopetree.Format("ini"))
	require.ErrorIs(t, err, scopetree.ErrUnknownFormat)
}

func TestDocumentSchema(t *testing.T) {
	t.Parallel()

	raw := scopetree.DocumentSchema()

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Equal(t, "object", schema["type"])

	raw[0] = 'x'
	assert.Equal(t, byte('{'), scopetree.DocumentSchema()[0])
}
