// Package prompts renders the model prompts used by the classifier and the
// weekly report. User text is always template data, never template source.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"alumind-feedback/internal/models"
)

const productContext = `A AluMind é uma startup que oferece um aplicativo focado em bem-estar e saúde mental,
proporcionando aos usuários acesso a meditações guiadas, sessões de terapia, e conteúdos educativos sobre saúde mental.`

var spamTemplate = template.Must(template.New("spam").Parse(productContext + `

Você é um assistente de análise de feedbacks da AluMind. Sua tarefa é avaliar o feedback de usuário abaixo
e determinar se ele é válido, ou seja, se é coerente, construtivo e relevante.

Se o feedback for válido, responda apenas com a letra "Y".
Se o feedback for considerado spam, irrelevante ou inválido, responda apenas com a letra "N".
Não escreva mais nada além dessa única letra.

Feedback (entre as marcações <feedback>):
<feedback>
{{.Text}}
</feedback>
`))

var analysisTemplate = template.Must(template.New("analysis").Parse(productContext + `

Você é um especialista em análise de feedback da AluMind e deve analisar o feedback do usuário e
retornar a funcionalidade mais importante que o usuário está solicitando.

Feedback de identificador "{{.ID}}" (entre as marcações <feedback>):
<feedback>
{{.Text}}
</feedback>

Identifique o sentimento como "POSITIVO", "NEGATIVO" ou "INCONCLUSIVO" e extraia a funcionalidade mais
importante solicitada (caso exista).
"feature_code" consiste em um código de até duas palavras escrito em letras maiúsculas, que representa o que o cliente mais deseja.
"feature_reason" consiste em uma frase curta e direta explicando o que o cliente deseja no código associado.
Se não houver solicitação, use null em "feature_code" e em "feature_reason".

Retorne somente um objeto JSON, sem texto adicional, no seguinte formato:

{
  "sentiment": "<POSITIVO, NEGATIVO ou INCONCLUSIVO>",
  "feature_code": "<Código ou null se não houver solicitação>",
  "feature_reason": "<Motivo ou null se não houver solicitação>"
}
`))

var reportTemplate = template.Must(template.New("report").Parse(`Você é um analista especializado em feedback de usuários da AluMind, uma startup que oferece um aplicativo focado em bem-estar e saúde mental.

Gere um relatório semanal em formato HTML baseado nos seguintes dados:

Período: {{.StartDate}} até {{.EndDate}}
Total de feedbacks: {{.Total}}

Resumo de sentimentos (a porcentagem considera apenas POSITIVO e NEGATIVO; null quando não se aplica):
{{.Sentiments}}

Funcionalidades mais solicitadas:
{{.Features}}

Por favor, gere um relatório profissional que inclua:
1. Uma análise geral do período
2. Insights sobre os sentimentos dos usuários
3. Recomendações baseadas nas funcionalidades mais solicitadas
4. Conclusões e sugestões de ações

O relatório deve ser formatado em HTML com estilos CSS embutidos para uma boa apresentação no email.
Use cores apropriadas para destacar pontos positivos (verde) e negativos (vermelho).
Responda apenas com o documento HTML.
`))

// SpamCheck renders the prompt that asks the model for a Y/N validity verdict.
func SpamCheck(sub models.Submission) (string, error) {
	return render(spamTemplate, sub)
}

// Analysis renders the prompt that asks for sentiment and feature request as JSON.
func Analysis(sub models.Submission) (string, error) {
	return render(analysisTemplate, sub)
}

type reportData struct {
	StartDate  string
	EndDate    string
	Total      int64
	Sentiments string
	Features   string
}

// WeeklyReport renders the narrative report prompt for an aggregated window.
func WeeklyReport(s models.WeeklySummary) (string, error) {
	sentiments, err := json.MarshalIndent(s.Sentiments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sentiments: %w", err)
	}
	features := s.FeatureRequests
	if features == nil {
		features = []models.FeatureCount{}
	}
	featureJSON, err := json.MarshalIndent(features, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode feature requests: %w", err)
	}
	return render(reportTemplate, reportData{
		StartDate:  s.Start.Format("2006-01-02"),
		EndDate:    s.End.Format("2006-01-02"),
		Total:      s.Total,
		Sentiments: string(sentiments),
		Features:   string(featureJSON),
	})
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}
