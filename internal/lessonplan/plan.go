package lessonplan

import (
	"bytes"
	"encoding/json"
	"errors"
)

// LessonPlan is a lesson built on the five BRIDGE stages. JSON keys follow
// the wire format the web client renders.
//
// A decoded plan keeps the document it came from and marshals back to it
// byte for byte, so keys the typed view does not name (and fields the model
// shaped differently) survive a round trip. The typed fields are a read-only
// view of that document.
type LessonPlan struct {
	Title             string            `json:"tituloAula"`
	Activation        Activation        `json:"ativacao"`
	RealProblem       RealProblem       `json:"problema_real"`
	Investigation     Investigation     `json:"investigacao"`
	PracticalSolution PracticalSolution `json:"solucao_pratica"`
	MiniProject       MiniProject       `json:"mini_projeto"`

	CurriculumSuggestions []CurriculumSuggestion `json:"sugestaoAulasCSV"`
	Notes                 *Field                 `json:"observacoesIA,omitempty"`

	doc json.RawMessage
}

// lessonPlanView drops the custom codecs so the typed view can be encoded.
type lessonPlanView LessonPlan

// Document returns the JSON the plan was decoded from, or nil for a plan
// built in code.
func (p *LessonPlan) Document() json.RawMessage {
	if p == nil {
		return nil
	}
	return p.doc
}

func (p LessonPlan) MarshalJSON() ([]byte, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	return json.Marshal(lessonPlanView(p))
}

// UnmarshalJSON keeps the document and fills the typed view key by key. A
// key whose value does not fit its typed field is left zero in the view; the
// document still carries it.
func (p *LessonPlan) UnmarshalJSON(b []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return err
	}
	if top == nil {
		return errors.New("lesson plan must be a JSON object")
	}
	*p = LessonPlan{doc: append(json.RawMessage(nil), bytes.TrimSpace(b)...)}

	if raw, ok := top[keyTitle]; ok {
		var title Field
		if json.Unmarshal(raw, &title) == nil && !title.IsRaw() {
			p.Title = title.String()
		}
	}
	p.Activation, _ = decodeView[Activation](top, keyActivation)
	p.RealProblem, _ = decodeView[RealProblem](top, keyRealProblem)
	p.Investigation, _ = decodeView[Investigation](top, keyInvestigation)
	p.PracticalSolution, _ = decodeView[PracticalSolution](top, keyPracticalSolution)
	p.MiniProject, _ = decodeView[MiniProject](top, keyMiniProject)
	p.CurriculumSuggestions, _ = decodeView[[]CurriculumSuggestion](top, keySuggestions)
	if raw, ok := top[keyNotes]; ok {
		var notes Field
		if json.Unmarshal(raw, &notes) == nil && !notes.IsZero() {
			p.Notes = &notes
		}
	}
	return nil
}

func decodeView[T any](top map[string]json.RawMessage, key string) (T, bool) {
	var v T
	raw, ok := top[key]
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Activation connects the topic to what students already know.
type Activation struct {
	Title           Field `json:"titulo"`
	Methodology     Field `json:"metodologia"`
	OpeningQuestion Field `json:"pergunta_inicial"`
	Activity        Field `json:"atividade"`
}

type RealProblem struct {
	Title           Field `json:"titulo"`
	Methodology     Field `json:"metodologia"`
	Scenario        Field `json:"cenario"`
	ProblemQuestion Field `json:"pergunta_problema"`
	Relevance       Field `json:"importancia"`
}

type Investigation struct {
	Title            Field `json:"titulo"`
	Methodology      Field `json:"metodologia"`
	GuidingQuestions Field `json:"perguntas_guiadas"`
	Discoveries      Field `json:"elementos_descobertos"`
}

type PracticalSolution struct {
	Title       Field `json:"titulo"`
	Methodology Field `json:"metodologia"`
	Description Field `json:"descricao"`
}

type MiniProject struct {
	Title       Field `json:"titulo"`
	Methodology Field `json:"metodologia"`
	Challenge   Field `json:"desafio"`
}

// CurriculumSuggestion points at an existing curriculum lesson related to the plan.
type CurriculumSuggestion struct {
	LessonID  Field `json:"idAula"`
	Topic     Field `json:"temaAula"`
	Rationale Field `json:"justificativa"`
}

const (
	keyTitle             = "tituloAula"
	keyActivation        = "ativacao"
	keyRealProblem       = "problema_real"
	keyInvestigation     = "investigacao"
	keyPracticalSolution = "solucao_pratica"
	keyMiniProject       = "mini_projeto"
	keySuggestions       = "sugestaoAulasCSV"
	keyNotes             = "observacoesIA"
)

// StageKeys lists the five stage keys in lesson order.
var StageKeys = []string{
	keyActivation,
	keyRealProblem,
	keyInvestigation,
	keyPracticalSolution,
	keyMiniProject,
}
