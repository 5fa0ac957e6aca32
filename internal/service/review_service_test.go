package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinops/internal/model"
)

func intPtr(i int) *int { return &i }

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []*int
		wantRated int
		wantAvg   *string
	}{
		{"no reviews", nil, 0, nil},
		{"only unrated", []*int{nil, nil}, 0, nil},
		{"whole average", []*int{intPtr(4), intPtr(4)}, 2, strPtr("4.00")},
		{"repeating average", []*int{intPtr(5), intPtr(4), intPtr(4)}, 3, strPtr("4.33")},
		{"mixed", []*int{intPtr(1), nil, intPtr(2)}, 2, strPtr("1.50")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]model.DashboardReview, 0, len(tt.ratings))
			for _, r := range tt.ratings {
				reviews = append(reviews, model.DashboardReview{Rating: r})
			}

			summary := Summarize(reviews)
			assert.Equal(t, len(tt.ratings), summary.Count)
			assert.Equal(t, tt.wantRated, summary.RatedCount)
			if tt.wantAvg == nil {
				assert.Nil(t, summary.AverageRating)
				return
			}
			require.NotNil(t, summary.AverageRating)
			assert.Equal(t, *tt.wantAvg, *summary.AverageRating)
		})
	}
}
