package nano

import "github.com/vango-dev/nano/pkg/vdom"

// NodeInfo is a snapshot of one rendered node, for debugging and dumps.
type NodeInfo struct {
	Kind     string      `yaml:"kind" json:"kind"`
	Name     string      `yaml:"name,omitempty" json:"name,omitempty"`
	Key      string      `yaml:"key,omitempty" json:"key,omitempty"`
	Text     string      `yaml:"text,omitempty" json:"text,omitempty"`
	ID       uint64      `yaml:"id,omitempty" json:"id,omitempty"`
	Phase    string      `yaml:"phase,omitempty" json:"phase,omitempty"`
	Handlers []string    `yaml:"handlers,omitempty" json:"handlers,omitempty"`
	Children []*NodeInfo `yaml:"children,omitempty" json:"children,omitempty"`
}

// Inspect returns a snapshot of the mounted tree, or nil if nothing is
// mounted.
func (r *Root) Inspect() *NodeInfo {
	return inspect(r.tree)
}

func inspect(r *rendered) *NodeInfo {
	if r == nil {
		return nil
	}
	info := &NodeInfo{
		Kind: r.node.Kind.String(),
		Key:  r.node.Key,
	}
	switch r.node.Kind {
	case vdom.KindElement:
		info.Name = r.node.Tag
		info.Handlers = sortedKeys(r.events)
	case vdom.KindText:
		info.Text = r.node.Text
	case vdom.KindComponent:
		info.Name = r.comp.Name()
		info.ID = r.comp.ID()
		info.Phase = r.comp.Phase().String()
		if out := inspect(r.comp.output); out != nil {
			info.Children = append(info.Children, out)
		}
		return info
	}
	for _, c := range r.children {
		info.Children = append(info.Children, inspect(c))
	}
	return info
}
