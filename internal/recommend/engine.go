// Package recommend answers by-title and by-genre queries against a
// published index snapshot.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/hana/reelmind/internal/domain"
	"github.com/hana/reelmind/internal/index"
	"github.com/hana/reelmind/internal/logger"
	"github.com/hana/reelmind/internal/similarity"
)

// fuzzyThreshold is the minimum normalized edit-distance ratio for a fuzzy
// title match to be accepted.
const fuzzyThreshold = 0.6

// Engine serves recommendation queries. Each query copies the current index
// reference once at entry and works against that snapshot only, so a
// concurrent refresh can never mix generations within one query.
type Engine struct {
	holder *index.Holder
	log    *logger.Logger
}

// NewEngine creates an Engine reading from holder.
func NewEngine(holder *index.Holder, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	return &Engine{holder: holder, log: log}
}

// Health describes the serving state.
type Health struct {
	RecordCount   int       `json:"record_count"`
	LastBuildTime time.Time `json:"last_build_time"`
}

// Health reports the record count and build time of the current snapshot.
// Zero values before the first successful build.
func (e *Engine) Health(ctx context.Context) Health {
	idx, err := e.holder.Current()
	if err != nil {
		return Health{}
	}
	return Health{RecordCount: len(idx.Records), LastBuildTime: idx.BuiltAt}
}

// ByTitle returns the topN movies most similar to the named one, excluding
// the queried movie itself. The title is matched case-insensitively first;
// failing that, the closest title by normalized edit distance is used when
// its ratio reaches the acceptance threshold, else ErrNotFound.
func (e *Engine) ByTitle(ctx context.Context, title string, topN int) ([]domain.ScoredMovie, error) {
	idx, err := e.holder.Current()
	if err != nil {
		return nil, err
	}
	if topN < 0 {
		topN = 0
	}

	row, err := matchTitle(idx.Records, title)
	if err != nil {
		return nil, err
	}

	scores := idx.Sim.Row(row)
	ranked := rankRows(allRows(len(idx.Records)), scores)

	results := make([]domain.ScoredMovie, 0, topN)
	for _, i := range ranked {
		if i == row {
			continue
		}
		if len(results) >= topN {
			break
		}
		results = append(results, domain.ScoredMovie{Movie: idx.Records[i], Score: scores[i]})
	}
	return results, nil
}

// ByGenre returns the topN movies of the labelled genre ranked by cosine
// similarity to the genre centroid. Candidates are the rows whose genres
// contain the label case-insensitively; ranking is restricted to that
// candidate set. ErrNotFound when no movie carries the label; topN of zero
// yields an empty list.
func (e *Engine) ByGenre(ctx context.Context, label string, topN int) ([]domain.ScoredMovie, error) {
	idx, err := e.holder.Current()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(label)
	candidates := make([]int, 0)
	for i := range idx.Records {
		if strings.Contains(strings.ToLower(idx.Records[i].Genres), needle) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no movies match genre %q", domain.ErrNotFound, label)
	}

	centroid := idx.Vectors.Centroid(candidates)
	sims := similarity.AgainstAll(idx.Vectors, centroid)

	ranked := rankRows(candidates, sims)
	if topN < len(ranked) {
		ranked = ranked[:max(topN, 0)]
	}

	results := make([]domain.ScoredMovie, len(ranked))
	for i, row := range ranked {
		results[i] = domain.ScoredMovie{Movie: idx.Records[row], Score: sims[row]}
	}
	return results, nil
}

// matchTitle finds the catalog row for a title. Exact case-insensitive
// equality wins, first match on ties.
func matchTitle(records []domain.Movie, title string) (int, error) {
	for i := range records {
		if strings.EqualFold(records[i].Title, title) {
			return i, nil
		}
	}

	lowered := strings.ToLower(title)
	bestRow := -1
	bestRatio := 0.0
	for i := range records {
		ratio := editRatio(lowered, strings.ToLower(records[i].Title))
		if ratio > bestRatio {
			bestRatio = ratio
			bestRow = i
		}
	}
	if bestRow < 0 || bestRatio < fuzzyThreshold {
		return 0, fmt.Errorf("%w: no title matching %q", domain.ErrNotFound, title)
	}
	return bestRow, nil
}

// editRatio is the edit-distance similarity of two strings, normalized to
// [0, 1] where 1 means equal.
func editRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// rankRows orders rows by score descending; ties keep original row order.
func rankRows(rows []int, scores []float64) []int {
	ranked := make([]int, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
