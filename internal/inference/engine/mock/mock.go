package mock

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
)

// Engine answers offline. Prompts that ask for the lesson plan JSON get a
// complete fenced plan about the requested topic; anything else is echoed.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

var topicRE = regexp.MustCompile(`Tema:\s*"([^"]*)"`)

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_ = opts

	user := engine.LastUserContent(messages)
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	if !strings.Contains(user, "tituloAula") {
		return "mock(" + model + "): " + strings.TrimSpace(user), nil
	}

	topic := "Aula"
	if m := topicRE.FindStringSubmatch(user); len(m) == 2 && strings.TrimSpace(m[1]) != "" {
		topic = strings.TrimSpace(m[1])
	}
	b, err := json.MarshalIndent(samplePlan(topic), "", "  ")
	if err != nil {
		return "", err
	}
	return "```json\n" + string(b) + "\n```", nil
}

func samplePlan(topic string) map[string]any {
	return map[string]any{
		"tituloAula": topic,
		"ativacao": map[string]any{
			"titulo":           "Ativação",
			"metodologia":      "Roda de conversa",
			"pergunta_inicial": "O que você já sabe sobre " + topic + "?",
			"atividade":        "Levantamento de hipóteses no quadro.",
		},
		"problema_real": map[string]any{
			"titulo":            "Problema Real",
			"metodologia":       "Aprendizagem baseada em problemas",
			"cenario":           "Uma situação do cotidiano envolvendo " + topic + ".",
			"pergunta_problema": "Como resolver esta situação?",
			"importancia":       "Conecta o conteúdo à realidade dos estudantes.",
		},
		"investigacao": map[string]any{
			"titulo":                "Investigação",
			"metodologia":           "Pesquisa orientada",
			"perguntas_guiadas":     []string{"O que observamos?", "Quais padrões aparecem?"},
			"elementos_descobertos": []string{"Conceitos-chave de " + topic},
		},
		"solucao_pratica": map[string]any{
			"titulo":      "Solução Prática",
			"metodologia": "Mão na massa",
			"descricao":   "Os grupos constroem uma solução aplicando " + topic + ".",
		},
		"mini_projeto": map[string]any{
			"titulo":      "Mini Projeto",
			"metodologia": "Projeto em equipe",
			"desafio":     "Apresentar uma aplicação de " + topic + " para a turma.",
		},
		"sugestaoAulasCSV": []any{},
		"observacoesIA":    "Plano gerado pelo motor local de desenvolvimento.",
	}
}
