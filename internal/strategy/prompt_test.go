package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendamais/followup-cli/internal/deal"
)

func promptRecord() *deal.Record {
	r := &deal.Record{
		BusinessName: "Projeto Alfa",
		Company:      "Acme",
		Phase:        "Proposta",
		Owner:        "Carlos",
		Descriptions: [deal.Steps]string{"primeiro contato", "enviou proposta", "", "", ""},
		Temperatures: [deal.Steps]string{"Frio", "", "", "", ""},
	}
	deal.Resolve(r)
	return r
}

func TestBuildPrompt_Structure(t *testing.T) {
	p := buildPrompt(promptRecord(), "", 10000)

	assert.Contains(t, p, `para o vendedor "Carlos"`)
	assert.Contains(t, p, "Projeto Alfa | Acme")
	assert.Contains(t, p, "Follow-up #3")
	assert.Contains(t, p, "**SITUAÇÃO:**")
	assert.Contains(t, p, "**MENSAGEM RECOMENDADA:**")
	assert.Contains(t, p, "**PRÓXIMO PASSO:**")
}

func TestBuildPrompt_HistoryOnlyFilledSteps(t *testing.T) {
	p := buildPrompt(promptRecord(), "", 10000)

	assert.Contains(t, p, "Follow-up 1 (Temperatura: Frio): primeiro contato")
	assert.Contains(t, p, "Follow-up 2 (Temperatura: Não informada): enviou proposta")
	assert.NotContains(t, p, "Follow-up 3 (")
}

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	r := &deal.Record{BusinessName: "Novo", Company: "Acme", Owner: "Carlos"}
	deal.Resolve(r)

	p := buildPrompt(r, "", 10000)
	assert.Contains(t, p, "Início de prospecção.")
}

func TestBuildPrompt_GenericGuidanceWithoutKnowledge(t *testing.T) {
	p := buildPrompt(promptRecord(), "", 10000)
	assert.Contains(t, p, genericGuidance)
	assert.NotContains(t, p, "CONHECIMENTO DA EMPRESA")
}

func TestBuildPrompt_KnowledgeTruncated(t *testing.T) {
	kb := strings.Repeat("ç", 200)
	p := buildPrompt(promptRecord(), kb, 50)

	assert.Contains(t, p, "CONHECIMENTO DA EMPRESA (VENDAMAIS):")
	assert.Contains(t, p, strings.Repeat("ç", 50))
	assert.NotContains(t, p, strings.Repeat("ç", 51))
}

func TestFallbackAdvice_UsesRecordFields(t *testing.T) {
	out := FallbackAdvice(promptRecord())

	assert.Contains(t, out, "**SITUAÇÃO:** Cliente aguardando retorno em Proposta.")
	assert.Contains(t, out, "Olá Acme")
	assert.Contains(t, out, "proposta de Projeto Alfa")
	assert.Contains(t, out, "**META:**")
}
