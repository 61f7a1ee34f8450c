package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCitizenshipStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected CitizenshipStatus
	}{
		{"Singapore Citizen", CitizenshipSC},
		{"PR", CitizenshipPR},
		{"Foreigner", CitizenshipForeign},
		{"Unknown", CitizenshipNotIdentified},
		{"", CitizenshipNotIdentified},
		{"citizen", CitizenshipNotIdentified},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCitizenshipStatus(tt.input))
		})
	}
}

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		input    string
		expected Recommendation
		ok       bool
	}{
		{"Top Candidate", RecommendationTopCandidate, true},
		{"Review", RecommendationReview, true},
		{"Rejected", RecommendationRejected, true},
		{"top candidate", "", false},
		{"Maybe", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rec, ok := ParseRecommendation(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, rec)
		})
	}
}
