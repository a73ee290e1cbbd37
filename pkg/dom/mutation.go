package dom

// MutationOp is the type of a DOM mutation.
type MutationOp uint8

const (
	MutationSetText    MutationOp = 0x01 // Text node data changed
	MutationSetAttr    MutationOp = 0x02 // Attribute set/updated
	MutationRemoveAttr MutationOp = 0x03 // Attribute removed
	MutationInsertNode MutationOp = 0x04 // Node inserted under a new parent
	MutationRemoveNode MutationOp = 0x05 // Node removed from its parent
	MutationMoveNode   MutationOp = 0x06 // Node moved within the same parent
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutationSetText:
		return "SetText"
	case MutationSetAttr:
		return "SetAttr"
	case MutationRemoveAttr:
		return "RemoveAttr"
	case MutationInsertNode:
		return "InsertNode"
	case MutationRemoveNode:
		return "RemoveNode"
	case MutationMoveNode:
		return "MoveNode"
	default:
		return "Unknown"
	}
}

// Mutation records a single change applied to the document.
type Mutation struct {
	Op     MutationOp // Operation type
	Target *Node      // Node whose attributes/text/children changed
	Key    string     // Attribute name (SetAttr/RemoveAttr)
	Value  string     // New attribute value or text
	Node   *Node      // Inserted/removed/moved child
	Ref    *Node      // Insert reference (nil means append)
}

// Observer receives mutations as they happen.
type Observer func(Mutation)

// Recorder collects mutations for later inspection.
type Recorder struct {
	mutations []Mutation
	stop      func()
}

// NewRecorder starts recording mutations made on doc.
func NewRecorder(doc *Document) *Recorder {
	r := &Recorder{}
	r.stop = doc.Observe(func(m Mutation) {
		r.mutations = append(r.mutations, m)
	})
	return r
}

// Mutations returns the recorded mutations in order.
func (r *Recorder) Mutations() []Mutation {
	return r.mutations
}

// Len returns the number of recorded mutations.
func (r *Recorder) Len() int {
	return len(r.mutations)
}

// Count returns the number of recorded mutations with the given op.
func (r *Recorder) Count(op MutationOp) int {
	n := 0
	for _, m := range r.mutations {
		if m.Op == op {
			n++
		}
	}
	return n
}

// Reset discards recorded mutations.
func (r *Recorder) Reset() {
	r.mutations = nil
}

// Stop detaches the recorder from the document.
func (r *Recorder) Stop() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}
