package lessonplan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw json.RawMessage) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestExtractFencedAndBareAgree(t *testing.T) {
	bare := Extract(validPlanJSON)
	fenced := Extract("```json\n" + validPlanJSON + "\n```")
	untagged := Extract("```\n" + validPlanJSON + "\n```")
	upper := Extract("```JSON\n" + validPlanJSON + "\n```")

	require.True(t, bare.IsJSON())
	require.True(t, fenced.IsJSON())
	require.True(t, untagged.IsJSON())
	require.True(t, upper.IsJSON())
	assert.Equal(t, decode(t, bare.JSON), decode(t, fenced.JSON))
	assert.Equal(t, decode(t, bare.JSON), decode(t, untagged.JSON))
	assert.Equal(t, decode(t, bare.JSON), decode(t, upper.JSON))
}

func TestExtractFenceWithSurroundingProse(t *testing.T) {
	ex := Extract("Claro! Aqui está o plano:\n```json\n{\"a\": 1}\n```\nBons estudos.")
	require.True(t, ex.IsJSON())
	assert.JSONEq(t, `{"a": 1}`, string(ex.JSON))
}

func TestExtractSingleLineFence(t *testing.T) {
	ex := Extract("```{\"a\": [1, 2]}```")
	require.True(t, ex.IsJSON())
	assert.JSONEq(t, `{"a": [1, 2]}`, string(ex.JSON))
}

func TestExtractSkipsNonJSONFences(t *testing.T) {
	ex := Extract("```python\nprint('oi')\n```\n```json\n{\"ok\": true}\n```")
	require.True(t, ex.IsJSON())
	assert.JSONEq(t, `{"ok": true}`, string(ex.JSON))
}

func TestExtractFenceInsideStringValue(t *testing.T) {
	doc := `{"descricao": "Rode:\n` + "```python" + `\nprint(1)\n` + "```" + `\nPronto."}`
	ex := Extract("```json\n" + doc + "\n```")
	require.True(t, ex.IsJSON())
	assert.JSONEq(t, doc, string(ex.JSON))
}

func TestExtractEmbeddedObjectInProse(t *testing.T) {
	ex := Extract(`Segue o resultado: {"slides": [{"titulo": "a}"}]} espero que ajude`)
	require.True(t, ex.IsJSON())
	assert.JSONEq(t, `{"slides": [{"titulo": "a}"}]}`, string(ex.JSON))
}

func TestExtractPlainTextIsNotJSON(t *testing.T) {
	ex := Extract("  Desculpe, não posso ajudar com isso.  ")
	assert.False(t, ex.IsJSON())
	assert.Equal(t, "Desculpe, não posso ajudar com isso.", ex.Text)
}

func TestExtractMalformedFenceFallsBackToText(t *testing.T) {
	ex := Extract("```json\n{\"a\": \n```")
	assert.False(t, ex.IsJSON())
	assert.Equal(t, "```json\n{\"a\": \n```", ex.Text)
}

func TestExtractEmpty(t *testing.T) {
	ex := Extract("   ")
	assert.False(t, ex.IsJSON())
	assert.Equal(t, "", ex.Text)
}
