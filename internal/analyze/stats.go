package analyze

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/trafficspec/pkg/types"
)

// requiredRule decides whether a presence count over a group size marks a
// parameter as required.
type requiredRule func(count, total int) bool

// requiredMajority: present in strictly more than half of the calls.
// Exactly half is not required.
func requiredMajority(count, total int) bool {
	return count*2 > total
}

// requiredStrict: present in more than 80% of the calls.
func requiredStrict(count, total int) bool {
	return count*5 > total*4
}

// paramStat accumulates per-parameter occurrence data across a group.
// Presence is tracked as a bitmap of call indices so a parameter repeated
// within one call counts once, and cardinality gives the presence count.
type paramStat struct {
	presence   *roaring.Bitmap
	typeCounts map[types.ParameterType]int
	typeOrder  []types.ParameterType
	example    string
	hasExample bool
}

// paramStats tracks stats for every parameter name seen in a group.
type paramStats struct {
	byName map[string]*paramStat
}

func newParamStats() *paramStats {
	return &paramStats{byName: make(map[string]*paramStat)}
}

// observe records that call callIdx carried the parameter with the given
// inferred type tag and value.
func (ps *paramStats) observe(name string, callIdx uint32, tag types.ParameterType, value string) {
	st, ok := ps.byName[name]
	if !ok {
		st = &paramStat{
			presence:   roaring.New(),
			typeCounts: make(map[types.ParameterType]int),
		}
		ps.byName[name] = st
	}

	st.presence.Add(callIdx)
	if st.typeCounts[tag] == 0 {
		st.typeOrder = append(st.typeOrder, tag)
	}
	st.typeCounts[tag]++
	if !st.hasExample {
		st.example = value
		st.hasExample = true
	}
}

// parameters converts the accumulated stats into a name-sorted parameter
// list. The reported type is the single most frequent tag, ties broken by
// first-seen order; minority-type samples are discarded from the type
// decision, not merged.
func (ps *paramStats) parameters(total int, required requiredRule) []types.Parameter {
	names := make([]string, 0, len(ps.byName))
	for name := range ps.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]types.Parameter, 0, len(names))
	for _, name := range names {
		st := ps.byName[name]
		p := types.Parameter{
			Name:     name,
			Type:     st.dominantType(),
			Required: required(int(st.presence.GetCardinality()), total),
		}
		if st.hasExample {
			p.Example = st.example
		}
		params = append(params, p)
	}
	return params
}

func (st *paramStat) dominantType() types.ParameterType {
	best := types.TypeString
	bestCount := -1
	for _, tag := range st.typeOrder {
		if st.typeCounts[tag] > bestCount {
			best = tag
			bestCount = st.typeCounts[tag]
		}
	}
	return best
}
