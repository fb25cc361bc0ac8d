package collector

// Grouped yields from an ordered sequence of child collectors: all of
// the first, then all of the second, and so on (spec §4.3).
type Grouped struct {
	children []Collector
	idx      int
}

// NewGrouped constructs a Grouped collector. Prefer Join over calling
// this directly when either operand might itself be Grouped, to keep
// a single flattened level (spec §4.3, "join(a,b)").
func NewGrouped(children ...Collector) *Grouped {
	return &Grouped{children: children}
}

// Join flattens: if either side is Grouped, its children are absorbed
// rather than nested, guaranteeing a single Grouped level (spec §4.3,
// §8's associativity property). Unwrapped non-Grouped operands become
// single children.
func Join(a, b Collector) *Grouped {
	var children []Collector
	if ga, ok := a.(*Grouped); ok {
		children = append(children, ga.children...)
	} else {
		children = append(children, a)
	}
	if gb, ok := b.(*Grouped); ok {
		children = append(children, gb.children...)
	} else {
		children = append(children, b)
	}
	return &Grouped{children: children}
}

func (g *Grouped) Next() (WorkItem, bool, error) {
	for g.idx < len(g.children) {
		item, ok, err := g.children[g.idx].Next()
		if err != nil {
			return WorkItem{}, false, err
		}
		if ok {
			return item, true, nil
		}
		g.idx++
	}
	return WorkItem{}, false, nil
}

func (g *Grouped) SizeHint() int {
	total := 0
	for _, c := range g.children[g.idx:] {
		total += c.SizeHint()
	}
	return total
}
