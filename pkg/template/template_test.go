package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Placeholders(t *testing.T) {
	placeholders, literal, err := Parse("Hello {{ $json.name }}, you owe {{$json.total}}!")
	require.NoError(t, err)

	require.Len(t, placeholders, 2)
	assert.Equal(t, Placeholder{Offset: 6, Body: "$json.name"}, placeholders[0])
	assert.Equal(t, "$json.total", placeholders[1].Body)
	assert.Equal(t, "Hello , you owe !", literal)
}

func TestParse_CloseMarkerWithoutOpenerIsLiteral(t *testing.T) {
	placeholders, literal, err := Parse("literal }} text {{ $json.a }}")
	require.NoError(t, err)

	require.Len(t, placeholders, 1)
	assert.Equal(t, Placeholder{Offset: 16, Body: "$json.a"}, placeholders[0])
	assert.Equal(t, "literal }} text ", literal)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		template string
		err      error
	}{
		{"empty string", "", nil},
		{"bare literal", "static text", nil},
		{"literal with dollar amount", "costs $5", nil},
		{"placeholder", "{{ $json.body }}", nil},
		{"mixed", "id-{{ $json.id }}-{{ $node[\"Set\"].json.x }}", nil},
		{"unclosed", "{{ $json.body", ErrUnbalancedPlaceholder},
		{"literal close marker", "literal }} text", nil},
		{"close before open", "}} {{ x }}", nil},
		{"trailing close", "{{ x }} }}", nil},
		{"unmarked reference before close marker", "$json }}", ErrUnmarkedReference},
		{"nested", "{{ a {{ b }} }}", ErrNestedPlaceholder},
		{"empty placeholder", "before {{   }} after", ErrEmptyPlaceholder},
		{"unmarked json reference", "$json.body", ErrUnmarkedReference},
		{"unmarked node call", "value: $('Set').item", ErrUnmarkedReference},
		{"unmarked next to placeholder", "{{ $json.a }} and $input.first()", ErrUnmarkedReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.template)
			if tt.err == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNeedsTemplating(t *testing.T) {
	assert.False(t, NeedsTemplating("plain"))
	assert.False(t, NeedsTemplating("costs $5"))
	assert.True(t, NeedsTemplating("{{ x }}"))
	assert.True(t, NeedsTemplating("$json.a"))
}

func TestCheckExpression(t *testing.T) {
	assert.True(t, IsExpression("={{ $json.url }}"))
	assert.False(t, IsExpression("https://example.com"))

	require.NoError(t, CheckExpression("={{ $json.url }}"))
	require.NoError(t, CheckExpression("=https://example.com/{{ $json.id }}"))
	require.NoError(t, CheckExpression("=$json.id"))
	assert.ErrorIs(t, CheckExpression("={{ $json.url"), ErrUnbalancedPlaceholder)
	assert.ErrorIs(t, CheckExpression("={{}}"), ErrEmptyPlaceholder)
}
