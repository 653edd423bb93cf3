package orchestrator

import (
	"github.com/swarmkernel/kernel/internal/metrics"
	"github.com/swarmkernel/kernel/internal/models"
)

func computeEpochMetrics(epoch int, interactions []models.SoftInteraction, agentSnapshot []models.Agent, frozenCount, flaggedPairCount int) models.EpochMetrics {
	return metrics.Compute(epoch, interactions, agentSnapshot, frozenCount, flaggedPairCount)
}

func encodeMetrics(m models.EpochMetrics) map[string]any {
	return map[string]any{
		"epoch":              m.Epoch,
		"accepted_count":     m.AcceptedCount,
		"rejected_count":     m.RejectedCount,
		"toxicity_rate":      m.ToxicityRate,
		"quality_gap":        m.QualityGap,
		"conditional_loss":   m.ConditionalLoss,
		"mean_p":             m.MeanP,
		"variance_p":         m.VarianceP,
		"brier":              m.Brier,
		"ece":                m.ECE,
		"total_welfare":      m.TotalWelfare,
		"gini_payoffs":       m.GiniPayoffs,
		"frozen_agent_count": m.FrozenAgentCount,
		"flagged_pair_count": m.FlaggedPairCount,
	}
}
