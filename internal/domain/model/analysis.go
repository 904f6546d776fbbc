package model

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the categorical output derived from the weighted risk score.
type Verdict string

const (
	VerdictAllow  Verdict = "ALLOW"
	VerdictReview Verdict = "REVIEW"
	VerdictBlock  Verdict = "BLOCK"
)

// RiskFactor is a named (score, weight) pair emitted by a rule or a scorer.
type RiskFactor struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// FraudAnalysis is the evaluator's verdict for one completed session.
type FraudAnalysis struct {
	SessionID       uuid.UUID    `json:"sessionId"`
	Verdict         Verdict      `json:"verdict"`
	ConfidenceScore float64      `json:"confidenceScore"`
	RiskFactors     []RiskFactor `json:"riskFactors"`
	ModelVersion    string       `json:"modelVersion"`
	EvaluatedAt     time.Time    `json:"evaluatedAt"`
}

// VerdictForScore maps a weighted confidence score to its verdict per spec §4.7.
func VerdictForScore(score float64) Verdict {
	switch {
	case score < 0.3:
		return VerdictAllow
	case score < 0.7:
		return VerdictReview
	default:
		return VerdictBlock
	}
}
