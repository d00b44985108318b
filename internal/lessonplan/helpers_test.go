package lessonplan

const validPlanJSON = `{
  "tituloAula": "Fotossíntese na prática",
  "ativacao": {"titulo": "Ativação", "metodologia": "Roda de conversa", "pergunta_inicial": "De onde vem a energia das plantas?", "atividade": "Observar folhas ao sol e à sombra."},
  "problema_real": {"titulo": "Problema Real", "metodologia": "PBL", "cenario": "Uma horta escolar com plantas amareladas.", "pergunta_problema": "Por que as plantas não crescem?", "importancia": "Produção de alimentos."},
  "investigacao": {"titulo": "Investigação", "metodologia": "Pesquisa guiada", "perguntas_guiadas": ["Qual o papel da luz?", "E da água?"], "elementos_descobertos": "Clorofila, CO2 e glicose."},
  "solucao_pratica": {"titulo": "Solução Prática", "metodologia": "Experimento", "descricao": "Medir o crescimento sob diferentes luzes."},
  "mini_projeto": {"titulo": "Mini Projeto", "metodologia": "Projeto", "desafio": "Propor um novo layout para a horta."},
  "sugestaoAulasCSV": [{"idAula": "Aula 07", "temaAula": "Ecossistemas", "justificativa": "Relaciona produtores e energia."}],
  "observacoesIA": "Currículo com poucos detalhes."
}`
