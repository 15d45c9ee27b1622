package llm

import (
	"google.golang.org/genai"

	"github.com/roasbeef/revue/internal/review"
)

// screenSchema constrains the desk reject check to a strict verdict
// object.
var screenSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isDeskReject": {
			Type: genai.TypeBoolean,
			Description: "True if the paper should be desk " +
				"rejected.",
		},
		"reason": {
			Type: genai.TypeString,
			Description: "Detailed reason for rejection, or " +
				"'Pass' if accepted.",
		},
	},
	Required: []string{"isDeskReject", "reason"},
}

// reviewSchema constrains the full review to the structured report the
// browser client renders.
var reviewSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"deskRejectAssessment": {
			Type: genai.TypeString,
			Description: "Brief confirmation of length, topic, " +
				"quality. State that Anonymity check was " +
				"skipped.",
		},
		"summary": {
			Type: genai.TypeString,
		},
		"strengths": {
			Type: genai.TypeString,
			Description: "Detailed paragraphs describing " +
				"strengths.",
		},
		"weaknesses": {
			Type: genai.TypeString,
			Description: "Detailed paragraphs describing " +
				"weaknesses.",
		},
		"missingRelatedWork": {
			Type: genai.TypeString,
		},
		"questionsForRebuttal": {
			Type: genai.TypeString,
		},
		"ratings": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"relevance":        {Type: genai.TypeInteger},
				"novelty":          {Type: genai.TypeInteger},
				"technicalQuality": {Type: genai.TypeInteger},
				"presentation":     {Type: genai.TypeInteger},
				"reproducibility":  {Type: genai.TypeInteger},
				"confidence":       {Type: genai.TypeInteger},
			},
			Required: []string{
				"relevance", "novelty", "technicalQuality",
				"presentation", "reproducibility",
				"confidence",
			},
		},
		"finalDecision": {
			Type: genai.TypeString,
			Enum: []string{
				review.DecisionAccept,
				review.DecisionWeakAccept,
				review.DecisionWeakReject,
				review.DecisionReject,
			},
		},
		"ethicsFlag": {
			Type: genai.TypeString,
			Enum: []string{
				review.EthicsFlagYes,
				review.EthicsFlagNo,
			},
		},
		"ethicsDescription": {
			Type: genai.TypeString,
		},
		"genAIAnalysis": {
			Type: genai.TypeString,
			Description: "Justification of whether content " +
				"seems AI-generated.",
		},
	},
	Required: []string{
		"deskRejectAssessment", "summary", "strengths", "weaknesses",
		"ratings", "finalDecision", "ethicsFlag", "genAIAnalysis",
	},
}
