package chunking

import (
	"fmt"
	"strings"

	"ai-pdfstudy-be/pkg/document"

	"github.com/samber/lo"
)

const (
	DefaultGroupingThreshold = 15
	DefaultGroupSize         = 5
)

// Group is a contiguous, non-empty run of pages that is sent to the model as one unit.
type Group struct {
	Label string
	Pages []document.Page
}

// Text joins the group's page texts with blank lines.
func (g Group) Text() string {
	return strings.Join(lo.Map(g.Pages, func(p document.Page, _ int) string {
		return p.Text
	}), "\n\n")
}

func (g Group) FirstPage() int { return g.Pages[0].Number }
func (g Group) LastPage() int  { return g.Pages[len(g.Pages)-1].Number }

// Policy decides how a document's pages are grouped for summaries and quizzes.
// Documents shorter than GroupingThreshold pages get one group per page,
// longer ones are cut into consecutive groups of GroupSize pages.
type Policy struct {
	GroupingThreshold int
	GroupSize         int
}

func NewPolicy() Policy {
	return Policy{
		GroupingThreshold: DefaultGroupingThreshold,
		GroupSize:         DefaultGroupSize,
	}
}

// Groups partitions text into ordered page groups. The result covers every page
// exactly once and is deterministic for a given input.
func (p Policy) Groups(text document.Text) []Group {
	pages := text.Pages
	if len(pages) == 0 {
		return nil
	}

	if len(pages) < p.threshold() {
		return lo.Map(pages, func(page document.Page, _ int) Group {
			return Group{
				Label: fmt.Sprintf("Page %d", page.Number),
				Pages: []document.Page{page},
			}
		})
	}

	return lo.Map(lo.Chunk(pages, p.size()), func(run []document.Page, _ int) Group {
		start := run[0].Number
		end := start + len(run) - 1
		return Group{
			Label: fmt.Sprintf("Pages %d-%d", start, end),
			Pages: run,
		}
	})
}

func (p Policy) threshold() int {
	if p.GroupingThreshold <= 0 {
		return DefaultGroupingThreshold
	}
	return p.GroupingThreshold
}

func (p Policy) size() int {
	if p.GroupSize <= 0 {
		return DefaultGroupSize
	}
	return p.GroupSize
}
