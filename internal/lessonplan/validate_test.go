package lessonplan

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePlanAcceptsCompletePlan(t *testing.T) {
	plan, err := ValidatePlan(json.RawMessage(validPlanJSON))
	require.NoError(t, err)

	assert.Equal(t, "Fotossíntese na prática", plan.Title)
	assert.True(t, plan.Investigation.GuidingQuestions.IsItems())
	assert.Equal(t, []string{"Qual o papel da luz?", "E da água?"}, plan.Investigation.GuidingQuestions.Lines())
	assert.False(t, plan.Investigation.Discoveries.IsItems())
	require.Len(t, plan.CurriculumSuggestions, 1)
	assert.Equal(t, "Aula 07", plan.CurriculumSuggestions[0].LessonID.String())
	require.NotNil(t, plan.Notes)
	assert.Equal(t, "Currículo com poucos detalhes.", plan.Notes.String())
}

func TestValidatePlanRoundTrip(t *testing.T) {
	plan, err := ValidatePlan(json.RawMessage(validPlanJSON))
	require.NoError(t, err)
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.JSONEq(t, validPlanJSON, string(out))
}

func TestValidatePlanRejectsMissingStage(t *testing.T) {
	for _, key := range StageKeys {
		t.Run(key, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal([]byte(validPlanJSON), &doc))
			delete(doc, key)
			b, err := json.Marshal(doc)
			require.NoError(t, err)

			_, err = ValidatePlan(b)
			require.ErrorIs(t, err, ErrNotLessonPlan)
			assert.Contains(t, err.Error(), key)

			shape := Inspect(string(b))
			assert.Equal(t, ShapeOtherJSON, shape.Kind)
			assert.Nil(t, shape.Plan)
		})
	}
}

func TestValidatePlanKeepsUnknownKeys(t *testing.T) {
	doc := strings.Replace(validPlanJSON, `"descricao": "Medir o crescimento sob diferentes luzes."`,
		`"descricao": "Medir o crescimento sob diferentes luzes.", "codigo": "print(1)"`, 1)
	doc = strings.Replace(doc, `"tituloAula": "Fotossíntese na prática",`,
		`"tituloAula": "Fotossíntese na prática", "duracaoTotal": "50min",`, 1)

	plan, err := ValidatePlan(json.RawMessage(doc))
	require.NoError(t, err)
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
	assert.Contains(t, string(out), `"codigo":"print(1)"`)
	assert.Contains(t, string(out), `"duracaoTotal":"50min"`)
}

func TestValidatePlanDoesNotFillAbsentFields(t *testing.T) {
	doc := `{"tituloAula": "Mínimo", "ativacao": {}, "problema_real": {}, "investigacao": {}, "solucao_pratica": {}, "mini_projeto": {}}`
	plan, err := ValidatePlan(json.RawMessage(doc))
	require.NoError(t, err)
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
}

func TestValidatePlanAcceptsStructuredFields(t *testing.T) {
	doc := strings.Replace(validPlanJSON, `"perguntas_guiadas": ["Qual o papel da luz?", "E da água?"]`,
		`"perguntas_guiadas": [{"pergunta": "Por que?"}]`, 1)
	doc = strings.Replace(doc, `"desafio": "Propor um novo layout para a horta."`, `"desafio": {"etapas": ["medir", "plantar"]}`, 1)
	doc = strings.Replace(doc,
		`"sugestaoAulasCSV": [{"idAula": "Aula 07", "temaAula": "Ecossistemas", "justificativa": "Relaciona produtores e energia."}]`,
		`"sugestaoAulasCSV": {"idAula": "Aula 07"}`, 1)

	shape := Inspect("```json\n" + doc + "\n```")
	require.Equal(t, ShapePlan, shape.Kind, shape.Reason)
	plan := shape.Plan

	assert.True(t, plan.Investigation.GuidingQuestions.IsRaw())
	assert.Equal(t, `[{"pergunta":"Por que?"}]`, plan.Investigation.GuidingQuestions.String())
	assert.True(t, plan.MiniProject.Challenge.IsRaw())
	assert.Equal(t, "Fotossíntese na prática", plan.Title)
	assert.Empty(t, plan.CurriculumSuggestions)

	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
}

func TestChatPlanRoundTripKeepsModelAdditions(t *testing.T) {
	doc := strings.Replace(validPlanJSON, `"observacoesIA": "Currículo com poucos detalhes."`,
		`"observacoesIA": "Currículo com poucos detalhes.", "recursos": ["lupa", {"item": "balança"}]`, 1)

	var current LessonPlan
	require.NoError(t, json.Unmarshal([]byte(doc), &current))

	prompt, err := BuildRefinePrompt(&current, "Adicione uma avaliação.")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"recursos"`)
	assert.Contains(t, prompt, `"balança"`)
}

func TestValidatePlanRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"null":          `null`,
		"array":         `[1,2]`,
		"no title":      `{"ativacao": {}}`,
		"null title":    strings.Replace(validPlanJSON, `"Fotossíntese na prática"`, `null`, 1),
		"stage is text": strings.Replace(validPlanJSON, `"solucao_pratica": {`, `"solucao_pratica": "x", "ignored": {`, 1),
		"object title":  strings.Replace(validPlanJSON, `"Fotossíntese na prática"`, `{"texto": "x"}`, 1),
	}
	for name, doc := range cases {
		_, err := ValidatePlan(json.RawMessage(doc))
		assert.ErrorIs(t, err, ErrNotLessonPlan, name)
	}
}

func TestValidatePlanDefaultsSuggestions(t *testing.T) {
	doc := strings.Replace(validPlanJSON, `"sugestaoAulasCSV": [{"idAula": "Aula 07", "temaAula": "Ecossistemas", "justificativa": "Relaciona produtores e energia."}],`, ``, 1)
	plan, err := ValidatePlan(json.RawMessage(doc))
	require.NoError(t, err)
	assert.NotNil(t, plan.CurriculumSuggestions)
	assert.Empty(t, plan.CurriculumSuggestions)
}

func TestInspectOutcomes(t *testing.T) {
	plan := Inspect("```json\n" + validPlanJSON + "\n```")
	assert.Equal(t, ShapePlan, plan.Kind)
	assert.NotNil(t, plan.Plan)

	slides := Inspect(`{"slides": [{"titulo": "Intro"}]}`)
	assert.Equal(t, ShapeSlides, slides.Kind)
	require.NotNil(t, slides.Slides)
	assert.Len(t, slides.Slides.Slides, 1)

	other := Inspect(`{"resposta": "sim"}`)
	assert.Equal(t, ShapeOtherJSON, other.Kind)
	assert.Nil(t, other.Plan)
	assert.NotEmpty(t, other.Reason)

	text := Inspect("Claro, posso ajudar.")
	assert.Equal(t, ShapeText, text.Kind)
	assert.Equal(t, "Claro, posso ajudar.", text.Text)
}
