package registry

// Kind names a runtime block type. It is the label of the block's fence.
type Kind string

const (
	KindState Kind = "state"
	KindSet   Kind = "set"
	KindForm  Kind = "form"
	KindIf    Kind = "if"
	KindElse  Kind = "else"
	KindNav   Kind = "nav"
	KindPanel Kind = "panel"
	KindMap   Kind = "map"
)

// kinds is the closed set of block kinds in declaration order.
var kinds = []Kind{KindState, KindSet, KindForm, KindIf, KindElse, KindNav, KindPanel, KindMap}

// Kinds returns every block kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is one of the block kinds.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}
