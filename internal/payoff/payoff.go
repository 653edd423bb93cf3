// Package payoff implements the soft payoff engine: a pure function
// mapping a resolved SoftInteraction, a PayoffConfig, and both parties'
// reputations to a pair of payoffs.
package payoff

import (
	"math"

	"github.com/swarmkernel/kernel/internal/models"
)

// ValidateConfig checks the payoff configuration's numeric preconditions,
// returning a *models.ConfigError for any violation. theta must lie in
// [0,1]; no weight may be NaN.
func ValidateConfig(cfg models.PayoffConfig) error {
	if cfg.Theta < 0 || cfg.Theta > 1 {
		return &models.ConfigError{Field: "payoff.theta", Reason: "must be in [0,1]"}
	}
	fields := map[string]float64{
		"s_plus": cfg.SPlus, "s_minus": cfg.SMinus, "h": cfg.H,
		"tau": cfg.Tau, "w_rep": cfg.WRep, "rho_a": cfg.RhoA, "rho_b": cfg.RhoB,
	}
	for name, v := range fields {
		if math.IsNaN(v) {
			return &models.ConfigError{Field: "payoff." + name, Reason: "must not be NaN"}
		}
	}
	return nil
}

// Compute returns (payoff_a, payoff_b) for a resolved interaction.
// Rejected interactions yield (0, 0). costA and costB are per-interaction
// costs (c_a, c_b in the formula); most callers pass zero unless a
// scenario's task pool assigns effort costs.
func Compute(interaction models.SoftInteraction, cfg models.PayoffConfig, repA, repB, costA, costB float64) (payoffA, payoffB float64) {
	if !interaction.Accepted {
		return 0, 0
	}
	p := interaction.P
	sSoft := p*cfg.SPlus - (1-p)*cfg.SMinus
	eSoft := (1 - p) * cfg.H

	payoffA = cfg.Theta*sSoft - cfg.Tau - costA - cfg.RhoA*eSoft + cfg.WRep*repA
	payoffB = (1-cfg.Theta)*sSoft + cfg.Tau - costB - cfg.RhoB*eSoft + cfg.WRep*repB
	return payoffA, payoffB
}
