package ranking

import (
	"fmt"
	"sort"
)

// LabelEncoder maps each value of a categorical field to its index in the sorted set
// of values seen at fit time.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitEncoder learns the value space from values.
func FitEncoder(values []string) *LabelEncoder {
	uniq := make(map[string]struct{}, len(values))
	for _, v := range values {
		uniq[v] = struct{}{}
	}
	classes := make([]string, 0, len(uniq))
	for v := range uniq {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

func (e *LabelEncoder) Transform(v string) (int, error) {
	i, ok := e.index[v]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenCategory, v)
	}
	return i, nil
}

func (e *LabelEncoder) Inverse(i int) string {
	return e.classes[i]
}

func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

func (e *LabelEncoder) Len() int {
	return len(e.classes)
}
