package payoff_test

import (
	"math"
	"testing"

	"github.com/swarmkernel/kernel/internal/models"
	"github.com/swarmkernel/kernel/internal/payoff"
)

func TestComputeRejectedYieldsZeroZero(t *testing.T) {
	interaction := models.SoftInteraction{Accepted: false, P: 0.9}
	a, b := payoff.Compute(interaction, models.DefaultPayoffConfig(), 0.5, 0.5, 0, 0)
	if a != 0 || b != 0 {
		t.Fatalf("rejected interaction should yield (0,0), got (%v,%v)", a, b)
	}
}

func TestComputeMatchesFormula(t *testing.T) {
	cfg := models.PayoffConfig{SPlus: 2, SMinus: 1, H: 1, Theta: 0.5, Tau: 0.1, WRep: 0.2, RhoA: 1, RhoB: 1}
	interaction := models.SoftInteraction{Accepted: true, P: 0.8}
	repA, repB := 0.6, 0.4
	costA, costB := 0.05, 0.02

	a, b := payoff.Compute(interaction, cfg, repA, repB, costA, costB)

	p := interaction.P
	sSoft := p*cfg.SPlus - (1-p)*cfg.SMinus
	eSoft := (1 - p) * cfg.H
	wantA := cfg.Theta*sSoft - cfg.Tau - costA - cfg.RhoA*eSoft + cfg.WRep*repA
	wantB := (1-cfg.Theta)*sSoft + cfg.Tau - costB - cfg.RhoB*eSoft + cfg.WRep*repB

	if math.Abs(a-wantA) > 1e-12 {
		t.Fatalf("payoffA = %v, want %v", a, wantA)
	}
	if math.Abs(b-wantB) > 1e-12 {
		t.Fatalf("payoffB = %v, want %v", b, wantB)
	}
}

func TestValidateConfigRejectsOutOfRangeTheta(t *testing.T) {
	cfg := models.DefaultPayoffConfig()
	cfg.Theta = 1.5
	if err := payoff.ValidateConfig(cfg); err == nil {
		t.Fatalf("expected an error for theta > 1")
	}
	cfg.Theta = -0.1
	if err := payoff.ValidateConfig(cfg); err == nil {
		t.Fatalf("expected an error for theta < 0")
	}
}

func TestValidateConfigRejectsNaN(t *testing.T) {
	cfg := models.DefaultPayoffConfig()
	cfg.WRep = math.NaN()
	if err := payoff.ValidateConfig(cfg); err == nil {
		t.Fatalf("expected an error for NaN weight")
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	if err := payoff.ValidateConfig(models.DefaultPayoffConfig()); err != nil {
		t.Fatalf("default payoff config should validate cleanly: %v", err)
	}
}
