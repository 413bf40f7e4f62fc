package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foundit-campus/foundit-api/gemini"
)

func TestParseAttributes(t *testing.T) {
	attrs, err := gemini.ParseAttributes(`{"title":"Blue Wallet","category":"Wallet","color":"Blue","brand":"Fossil","tags":["wallet","blue","leather","fossil","bifold"]}`)

	assert.NoError(t, err)
	assert.Equal(t, "Blue Wallet", attrs.Title)
	assert.Equal(t, "Wallet", attrs.Category)
	assert.Equal(t, "Blue", attrs.Color)
	assert.Equal(t, "Fossil", attrs.Brand)
	assert.Len(t, attrs.Tags, 5)
}

func TestParseAttributes_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"title\":\"Silver Bottle\",\"category\":\"Bottle\",\"color\":\"Silver\"}\n```"

	attrs, err := gemini.ParseAttributes(raw)

	assert.NoError(t, err)
	assert.Equal(t, "Silver Bottle", attrs.Title)
}

func TestParseAttributes_UppercaseFence(t *testing.T) {
	raw := "```JSON\n{\"title\":\"Black Umbrella\"}\n```"

	attrs, err := gemini.ParseAttributes(raw)

	assert.NoError(t, err)
	assert.Equal(t, "Black Umbrella", attrs.Title)
}

func TestParseAttributes_UnparsableOutput(t *testing.T) {
	_, err := gemini.ParseAttributes("sorry, I cannot describe this image")

	assert.ErrorIs(t, err, gemini.ErrAnalysis)
}

func TestParseAttributes_EmptyOutput(t *testing.T) {
	_, err := gemini.ParseAttributes("```json\n```")

	assert.ErrorIs(t, err, gemini.ErrAnalysis)
}
