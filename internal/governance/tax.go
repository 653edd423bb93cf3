package governance

import "github.com/swarmkernel/kernel/internal/models"

// applyTax deducts a flat tax_rate from an accepted interaction's
// combined payoff, split evenly between the two parties, and records the
// exact amount taxed. Property 3 requires taxed_amount to equal the
// configured rate exactly, count-of-accepted times, not a proportional
// share of the interaction's payoff, so the amount is fixed rather than
// derived from S_soft.
func (e *Engine) applyTax(i *models.SoftInteraction) {
	if !i.Accepted || e.cfg.TaxRate <= 0 {
		return
	}
	i.TaxedAmount = e.cfg.TaxRate
	half := e.cfg.TaxRate / 2
	i.PayoffA -= half
	i.PayoffB -= half
}
