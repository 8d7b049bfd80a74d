// Package strategy turns a resolved deal record into a coaching
// recommendation via the Groq API, with caching, retry, and model fallback.
package strategy

import (
	"fmt"
	"strings"

	"github.com/vendamais/followup-cli/internal/deal"
)

// validModels is the model preference list, most capable first. When the
// active model is decommissioned the generator advances to the next entry.
var validModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instruct",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

const genericGuidance = "NOTA: Nenhum documento da empresa disponível. Use as melhores práticas mundiais de vendas B2B de alto ticket."

// buildPrompt assembles the coaching prompt for one resolved record. The
// knowledge base is truncated to kbMaxChars runes; when absent the prompt
// falls back to generic B2B sales guidance.
func buildPrompt(r *deal.Record, kbText string, kbMaxChars int) string {
	knowledge := genericGuidance
	if kbText != "" {
		knowledge = fmt.Sprintf(`CONHECIMENTO DA EMPRESA (VENDAMAIS):
%s

Use TODO o conteúdo técnico acima para embasar sua análise. Cite produtos, serviços e metodologias específicas da Vendamais.`, truncateRunes(kbText, kbMaxChars))
	}

	history := historyText(r)
	if history == "" {
		history = "Início de prospecção."
	}

	return fmt.Sprintf(`Você é um Diretor Comercial Sênior da Vendamais. Dê uma orientação estratégica equilibrada para o vendedor "%s".

%s

CONTEXTO:
- Negócio/Cliente: %s | %s
- Próximo Passo: Follow-up #%d (Temperatura: %s)

HISTÓRICO: %s

ESTRUTURA DA RESPOSTA:
1. **SITUAÇÃO:** Resuma em um parágrafo curto (3-4 frases) o cenário atual, o que o cliente está sentindo e o principal desafio.
2. **MENSAGEM RECOMENDADA:** Crie uma mensagem persuasiva e profissional pronta para enviar. Use gatilhos mentais da Vendamais.
3. **PRÓXIMO PASSO:** Defina a meta clara deste contato e como conduzir para o fechamento.

REGRA: Seja direto e profissional. Evite introduções desnecessárias, mas forneça substância estratégica em cada tópico.`,
		r.Owner, knowledge, r.BusinessName, r.Company, r.NextStep, r.CurrentTemperature, history)
}

// historyText renders the filled follow-up steps up to the last answered one.
func historyText(r *deal.Record) string {
	var b strings.Builder
	for i := 0; i < r.LastStep && i < deal.Steps; i++ {
		desc := strings.TrimSpace(r.Descriptions[i])
		if desc == "" {
			continue
		}
		temp := strings.TrimSpace(r.Temperatures[i])
		if temp == "" {
			temp = deal.NotInformedF
		}
		fmt.Fprintf(&b, "Follow-up %d (Temperatura: %s): %s\n", i+1, temp, desc)
	}
	return b.String()
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
