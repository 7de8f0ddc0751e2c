package symtab

// Block is one frame of the block nesting chain. Frames are immutable and
// parent-linked, so holding a *Block captures the whole chain at that point.
type Block struct {
	ID     int
	Parent *Block
	Depth  int
}

// Encloses reports whether b is o or one of o's ancestors.
func (b *Block) Encloses(o *Block) bool {
	for ; o != nil; o = o.Parent {
		if o == b {
			return true
		}
	}
	return false
}

// Snapshot captures where in the program a goto or label was reduced.
type Snapshot struct {
	Block  *Block
	Scope  int
	Seq    int // number of declarations recorded before this point
	Line   int
	Column int
}

// Decl is a variable declaration recorded in source order.
type Decl struct {
	Name  string
	Block *Block
	Seq   int
	Line  int
}
