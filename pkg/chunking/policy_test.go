package chunking

import (
	"fmt"
	"testing"

	"ai-pdfstudy-be/pkg/document"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(n int) document.Text {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("text of page %d", i+1)
	}
	return document.NewText(texts)
}

func labels(groups []Group) []string {
	return lo.Map(groups, func(g Group, _ int) string { return g.Label })
}

func TestPolicyGroups(t *testing.T) {
	policy := NewPolicy()

	tests := []struct {
		name   string
		pages  int
		labels []string
	}{
		{name: "empty document", pages: 0, labels: nil},
		{name: "single page", pages: 1, labels: []string{"Page 1"}},
		{name: "three pages", pages: 3, labels: []string{"Page 1", "Page 2", "Page 3"}},
		{name: "just below threshold", pages: 14, labels: lo.Times(14, func(i int) string { return fmt.Sprintf("Page %d", i+1) })},
		{name: "exactly at threshold", pages: 15, labels: []string{"Pages 1-5", "Pages 6-10", "Pages 11-15"}},
		{name: "short last group", pages: 16, labels: []string{"Pages 1-5", "Pages 6-10", "Pages 11-15", "Pages 16-16"}},
		{name: "two page tail", pages: 17, labels: []string{"Pages 1-5", "Pages 6-10", "Pages 11-15", "Pages 16-17"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := policy.Groups(pages(tt.pages))
			assert.Equal(t, tt.labels, labels(groups))
		})
	}
}

func TestPolicyGroupsCoverEveryPageOnceInOrder(t *testing.T) {
	for _, n := range []int{1, 7, 14, 15, 23, 75} {
		groups := NewPolicy().Groups(pages(n))

		next := 1
		for _, g := range groups {
			require.NotEmpty(t, g.Pages)
			assert.LessOrEqual(t, len(g.Pages), DefaultGroupSize)
			for _, p := range g.Pages {
				assert.Equal(t, next, p.Number, "pages=%d", n)
				next++
			}
		}
		assert.Equal(t, n+1, next)
	}
}

func TestSeventyFivePagesMakeFifteenGroups(t *testing.T) {
	groups := NewPolicy().Groups(pages(75))

	require.Len(t, groups, 15)
	assert.Equal(t, "Pages 71-75", groups[14].Label)
	assert.Equal(t, 71, groups[14].FirstPage())
	assert.Equal(t, 75, groups[14].LastPage())
}

func TestGroupTextJoinsPagesWithBlankLine(t *testing.T) {
	groups := NewPolicy().Groups(pages(15))

	assert.Equal(t,
		"text of page 1\n\ntext of page 2\n\ntext of page 3\n\ntext of page 4\n\ntext of page 5",
		groups[0].Text())
}

func TestPolicyZeroValueUsesDefaults(t *testing.T) {
	var policy Policy
	assert.Len(t, policy.Groups(pages(20)), 4)
}
