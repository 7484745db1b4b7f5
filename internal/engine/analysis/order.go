package analysis

import (
	"sort"
	"strings"
)

// Order selects the sequence in which files are fed to the engine.
type Order string

const (
	// OrderPath analyzes files sorted by path.
	OrderPath Order = "path"
	// OrderInheritance declares every type first, then analyzes files so
	// that a superclass is registered before its subclasses.
	OrderInheritance Order = "inheritance"
)

func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case OrderPath:
		return OrderPath, true
	case OrderInheritance, "":
		return OrderInheritance, true
	}
	return "", false
}

// SortForAnalysis returns files in analysis order without modifying the
// input. Files caught in an inheritance cycle keep path order at the end.
func SortForAnalysis(files []*CodeFile, order Order) []*CodeFile {
	sorted := make([]*CodeFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	if order != OrderInheritance {
		return sorted
	}

	owner := make(map[string]int)
	for i, f := range sorted {
		if f.Unit == nil {
			continue
		}
		for _, t := range f.Unit.Types {
			if name := t.TypeName(); name != "" {
				if _, ok := owner[name]; !ok {
					owner[name] = i
				}
			}
		}
	}

	indegree := make([]int, len(sorted))
	dependents := make([][]int, len(sorted))
	for i, f := range sorted {
		if f.Unit == nil {
			continue
		}
		seen := make(map[int]bool)
		for _, t := range f.Unit.Types {
			j, ok := owner[superclassOf(t)]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i := range sorted {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	out := make([]*CodeFile, 0, len(sorted))
	done := make([]bool, len(sorted))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		out = append(out, sorted[i])
		done[i] = true
		for _, k := range dependents[i] {
			indegree[k]--
			if indegree[k] == 0 {
				ready = append(ready, k)
			}
		}
	}
	for i, f := range sorted {
		if !done[i] {
			out = append(out, f)
		}
	}
	return out
}
