package strategy

import (
	"fmt"

	"github.com/vendamais/followup-cli/internal/deal"
)

// FallbackAdvice is the deterministic recommendation used when generation
// fails in a way the retry policy cannot recover from. It follows the same
// three-section shape as the generated output so reports stay uniform.
func FallbackAdvice(r *deal.Record) string {
	return fmt.Sprintf(`1. **SITUAÇÃO:** Cliente aguardando retorno em %s.
2. **AÇÃO:** "Olá %s, passando para confirmar se recebeu minha proposta de %s."
3. **META:** Confirmar recebimento e agendar breve alinhamento.`,
		r.Phase, r.Company, r.BusinessName)
}
