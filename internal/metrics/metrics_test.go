package metrics_test

import (
	"math"
	"testing"

	"github.com/swarmkernel/kernel/internal/metrics"
	"github.com/swarmkernel/kernel/internal/models"
)

func TestComputeSplitsAcceptedAndRejected(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Accepted: true, P: 0.9, PayoffA: 1, PayoffB: 1},
		{Accepted: true, P: 0.8, PayoffA: 1, PayoffB: 1},
		{Accepted: false, P: 0.1},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.AcceptedCount != 2 || m.RejectedCount != 1 {
		t.Fatalf("AcceptedCount=%d RejectedCount=%d, want 2/1", m.AcceptedCount, m.RejectedCount)
	}
}

func TestToxicityRateIsMeanOneMinusPOverAccepted(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Accepted: true, P: 0.9},
		{Accepted: true, P: 0.7},
		{Accepted: false, P: 0.0}, // must not count toward toxicity
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	want := ((1 - 0.9) + (1 - 0.7)) / 2
	if math.Abs(m.ToxicityRate-want) > 1e-12 {
		t.Fatalf("ToxicityRate = %v, want %v", m.ToxicityRate, want)
	}
}

func TestQualityGapZeroWhenEitherBucketEmpty(t *testing.T) {
	onlyAccepted := []models.SoftInteraction{{Accepted: true, P: 0.9}}
	m := metrics.Compute(0, onlyAccepted, nil, 0, 0)
	if m.QualityGap != 0 {
		t.Fatalf("QualityGap = %v, want 0 when no rejections exist", m.QualityGap)
	}
}

func TestQualityGapPositiveWhenAcceptedOutperformRejected(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Accepted: true, P: 0.9},
		{Accepted: false, P: 0.2},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.QualityGap <= 0 {
		t.Fatalf("QualityGap = %v, want > 0", m.QualityGap)
	}
}

func TestBrierZeroForPerfectCalibration(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Accepted: true, P: 1.0},
		{Accepted: false, P: 0.0},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.Brier != 0 {
		t.Fatalf("Brier = %v, want 0 for perfectly calibrated predictions", m.Brier)
	}
}

func TestBrierPositiveForMiscalibration(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Accepted: false, P: 1.0}, // predicted acceptance, actually rejected
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.Brier <= 0 {
		t.Fatalf("Brier = %v, want > 0 for a maximally wrong prediction", m.Brier)
	}
}

func TestTotalWelfareSumsCombinedPayoffs(t *testing.T) {
	interactions := []models.SoftInteraction{
		{PayoffA: 1, PayoffB: 2},
		{PayoffA: -0.5, PayoffB: 0.5},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.TotalWelfare != 3 {
		t.Fatalf("TotalWelfare = %v, want 3", m.TotalWelfare)
	}
}

func TestGiniZeroForFewerThanTwoAgents(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Initiator: "a", Counterparty: "a", PayoffA: 1, PayoffB: 1},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.GiniPayoffs != 0 {
		t.Fatalf("GiniPayoffs = %v, want 0 with a single agent", m.GiniPayoffs)
	}
}

func TestGiniZeroForEqualPayoffs(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Initiator: "a", Counterparty: "b", PayoffA: 1, PayoffB: 1},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if math.Abs(m.GiniPayoffs) > 1e-12 {
		t.Fatalf("GiniPayoffs = %v, want ~0 for equal payoffs", m.GiniPayoffs)
	}
}

func TestGiniPositiveForUnequalPayoffs(t *testing.T) {
	interactions := []models.SoftInteraction{
		{Initiator: "a", Counterparty: "b", PayoffA: 10, PayoffB: 0},
	}
	m := metrics.Compute(0, interactions, nil, 0, 0)
	if m.GiniPayoffs <= 0 {
		t.Fatalf("GiniPayoffs = %v, want > 0 for an unequal split", m.GiniPayoffs)
	}
}

func TestComputeExtendedHandlesEmptyInput(t *testing.T) {
	ext := metrics.ComputeExtended(nil)
	if ext.Spread != 0 || ext.UncertainFraction != 0 {
		t.Fatalf("ComputeExtended(nil) should be the zero value, got %+v", ext)
	}
}

func TestComputeExtendedBucketsQualityDistribution(t *testing.T) {
	interactions := []models.SoftInteraction{
		{P: 0.05}, // bin 0
		{P: 0.95}, // bin 9
		{P: 1.0},  // clamps into bin 9
	}
	ext := metrics.ComputeExtended(interactions)
	if ext.QualityDistribution[0] != 1 {
		t.Fatalf("bin 0 = %d, want 1", ext.QualityDistribution[0])
	}
	if ext.QualityDistribution[9] != 2 {
		t.Fatalf("bin 9 = %d, want 2", ext.QualityDistribution[9])
	}
}
