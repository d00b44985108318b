package services

const samplePlanJSON = `{
  "tituloAula": "Lógica em ação",
  "ativacao": {"titulo": "Ativação", "metodologia": "Roda de conversa", "pergunta_inicial": "Como você explicaria uma receita para um robô?", "atividade": "Escrever passos para fazer um sanduíche."},
  "problema_real": {"titulo": "Problema Real", "metodologia": "PBL", "cenario": "A cantina da escola forma filas enormes.", "pergunta_problema": "Como organizar os pedidos?", "importancia": "Tempo de intervalo."},
  "investigacao": {"titulo": "Investigação", "metodologia": "Pesquisa guiada", "perguntas_guiadas": ["O que é um algoritmo?", "O que é uma condição?"], "elementos_descobertos": "Sequência, decisão e repetição."},
  "solucao_pratica": {"titulo": "Solução Prática", "metodologia": "Demonstração", "descricao": "Fluxograma do atendimento da cantina."},
  "mini_projeto": {"titulo": "Mini Projeto", "metodologia": "Projeto", "desafio": "Criar o algoritmo de uma fila justa."},
  "sugestaoAulasCSV": []
}`
