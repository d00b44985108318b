package lessonplan

import (
	"encoding/json"
	"strings"
)

// CurriculumPlaceholder stands in for the curriculum block when no lessons are stored.
const CurriculumPlaceholder = "Nenhuma aula de currículo disponível para referência."

const generateTemplate = `Você é especialista em design instrucional e escreve conteúdo didático para estudantes do ensino médio, técnico e profissionalizante.
Transforme a demanda do professor (Tema: "{{TOPIC}}") em uma aula completa segundo o método BRIDGE, escrevendo diretamente PARA O ESTUDANTE.

---
Aulas do currículo existente (use como referência para sugerir adequações):
{{CURRICULUM}}
---

A partir do tema (Tema: "{{TOPIC}}") e das aulas acima:
1. Escreva o conteúdo das cinco etapas do método BRIDGE com linguagem clara, engajante e motivadora.
2. Identifique as aulas do currículo existente que mais se relacionam com o tema e preencha "sugestaoAulasCSV" com objetos contendo:
   - "idAula": o ID exato da aula no currículo (ex.: "Aula 01");
   - "temaAula": o tema exato dessa aula;
   - "justificativa": uma ou duas frases explicando a relação com o tema.
   Procure indicar pelo menos uma aula. Se nenhuma servir, devolva [].
3. Em "observacoesIA", comente o plano em relação ao currículo e avise se o currículo veio vazio ou incompleto.

Etapas:
- Ativação: uma pergunta inicial e uma atividade que liguem o tema ao conhecimento prévio e despertem curiosidade.
- Problema Real: um cenário do mundo real com uma pergunta-problema e a importância de resolvê-lo.
- Investigação: perguntas guiadas para o estudante explorar o conteúdo e os elementos que ele deve descobrir.
- Solução Prática: uma demonstração ou experimento curto; se envolver código, inclua o trecho.
- Mini Projeto: um desafio rápido em que o estudante aplica o que aprendeu e produz algo concreto.

FORMATO DA RESPOSTA:
Responda SOMENTE com um objeto JSON válido, sem texto antes ou depois e sem blocos de código markdown.
Use exatamente esta estrutura:
{
  "tituloAula": "string",
  "ativacao": { "titulo": "string", "metodologia": "string", "pergunta_inicial": "string", "atividade": "string" },
  "problema_real": { "titulo": "string", "metodologia": "string", "cenario": "string", "pergunta_problema": "string", "importancia": "string" },
  "investigacao": { "titulo": "string", "metodologia": "string", "perguntas_guiadas": "string", "elementos_descobertos": "string" },
  "solucao_pratica": { "titulo": "string", "metodologia": "string", "descricao": "string" },
  "mini_projeto": { "titulo": "string", "metodologia": "string", "desafio": "string" },
  "sugestaoAulasCSV": [ { "idAula": "string", "temaAula": "string", "justificativa": "string" } ],
  "observacoesIA": "string"
}`

const refineTemplate = `Você está ajudando um professor a revisar o plano de aula abaixo (formato JSON).

` + "```json" + `
{{PLAN}}
` + "```" + `

Pedido do professor: {{QUESTION}}

Se o pedido exigir alterar o plano, responda SOMENTE com o plano completo atualizado, no mesmo formato JSON e com as mesmas chaves.
Se for apenas uma pergunta ou comentário, responda em texto simples, sem JSON.`

// BuildGeneratePrompt assembles the full generation prompt. It is pure: the same
// inputs always yield the same prompt.
func BuildGeneratePrompt(topic, curriculumContext string) string {
	if strings.TrimSpace(curriculumContext) == "" {
		curriculumContext = CurriculumPlaceholder
	}
	r := strings.NewReplacer(
		"{{TOPIC}}", topic,
		"{{CURRICULUM}}", curriculumContext,
	)
	return r.Replace(generateTemplate)
}

// BuildRefinePrompt embeds the current plan and the educator's question in a chat prompt.
func BuildRefinePrompt(plan *LessonPlan, question string) (string, error) {
	b, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", err
	}
	r := strings.NewReplacer(
		"{{PLAN}}", string(b),
		"{{QUESTION}}", strings.TrimSpace(question),
	)
	return r.Replace(refineTemplate), nil
}
