package lycoris

import "strings"

// The dictionary is a byte-indexed trie, so that the tokenizer can find the
// longest defined word starting at any source position without requiring
// whitespace between tokens. Builtins are seeded once and are permanent;
// user words carry their body, its display text, and a display color.

type binding struct {
	name    string
	builtin func(*Evaluator) error
	body    Vector
	source  string
	color   string
}

func (b *binding) isBuiltin() bool { return b.builtin != nil }

type trieNode struct {
	children map[byte]*trieNode
	bind     *binding
}

func (n *trieNode) child(c byte) *trieNode {
	if n.children == nil {
		n.children = make(map[byte]*trieNode)
	}
	next := n.children[c]
	if next == nil {
		next = &trieNode{}
		n.children[c] = next
	}
	return next
}

type dict struct {
	root  trieNode
	order []string       // user entry names, insertion order
	index map[string]int // name -> position in order

	// journal holds inverse ops for mutations made by the token currently
	// executing, so a failing token can be unwound.
	journal []func()
}

func (d *dict) node(name string) *trieNode {
	n := &d.root
	for i := 0; i < len(name); i++ {
		n = n.child(name[i])
	}
	return n
}

func (d *dict) seed(name string, fn func(*Evaluator) error) {
	d.node(name).bind = &binding{name: name, builtin: fn}
}

func (d *dict) lookup(name string) *binding {
	n := &d.root
	for i := 0; i < len(name); i++ {
		if n.children == nil {
			return nil
		}
		n = n.children[name[i]]
		if n == nil {
			return nil
		}
	}
	return n.bind
}

// longestPrefix walks the trie along src from at, returning the byte length
// and binding of the longest defined word, or (0, nil).
func (d *dict) longestPrefix(src string, at int) (int, *binding) {
	node := &d.root
	length, best := 0, (*binding)(nil)
	for i := at; i < len(src) && node.children != nil; i++ {
		node = node.children[src[i]]
		if node == nil {
			break
		}
		if node.bind != nil {
			length, best = i+1-at, node.bind
		}
	}
	return length, best
}

// define installs or atomically replaces a user entry.
func (d *dict) define(name string, body Vector, source, color string) error {
	if err := validateName(name); err != nil {
		return err
	}
	node := d.node(name)
	prev := node.bind
	if prev != nil && prev.isBuiltin() {
		return errf(NameConflict, "%q is a built-in word", name)
	}
	node.bind = &binding{name: name, body: body, source: source, color: color}
	if prev == nil {
		if d.index == nil {
			d.index = make(map[string]int)
		}
		d.index[name] = len(d.order)
		d.order = append(d.order, name)
		d.log(func() {
			node.bind = nil
			d.order = d.order[:len(d.order)-1]
			delete(d.index, name)
		})
	} else {
		d.log(func() { node.bind = prev })
	}
	return nil
}

func (d *dict) undefine(name string) error {
	node := d.node(name)
	prev := node.bind
	if prev == nil {
		return errf(NotFound, "unknown word %q", name)
	}
	if prev.isBuiltin() {
		return errf(ProtectedBuiltin, "cannot undefine built-in %q", name)
	}
	at := d.index[name]
	node.bind = nil
	d.order = append(d.order[:at:at], d.order[at+1:]...)
	delete(d.index, name)
	for i := at; i < len(d.order); i++ {
		d.index[d.order[i]] = i
	}
	d.log(func() {
		node.bind = prev
		d.order = append(d.order[:at:at], append([]string{name}, d.order[at:]...)...)
		for i := at; i < len(d.order); i++ {
			d.index[d.order[i]] = i
		}
	})
	return nil
}

func (d *dict) userEntries() []*binding {
	entries := make([]*binding, 0, len(d.order))
	for _, name := range d.order {
		entries = append(entries, d.lookup(name))
	}
	return entries
}

func (d *dict) log(undo func()) {
	d.journal = append(d.journal, undo)
}

func (d *dict) commit() { d.journal = d.journal[:0] }

func (d *dict) revert() {
	for i := len(d.journal) - 1; i >= 0; i-- {
		d.journal[i]()
	}
	d.journal = d.journal[:0]
}

// validateName rejects names the tokenizer could never reach: empty names,
// names containing structural characters or whitespace, and names shadowed
// by the number or reserved-literal rules, which match first. A leading sign
// only shadows the name when a digit follows it, so "-x" is a fine word while
// "-3x" is not. A leading dot followed by a digit (".5z") is rejected as
// well, although the number grammar itself needs a digit before any dot.
func validateName(name string) error {
	if name == "" {
		return errf(InvalidName, "empty word name")
	}
	if strings.ContainsAny(name, " \t\n\r'[]@*#:") {
		return errf(InvalidName, "word name %q contains reserved characters", name)
	}
	switch c := name[0]; {
	case c >= '0' && c <= '9':
		return errf(InvalidName, "word name %q collides with number syntax", name)
	case c == '+' || c == '-' || c == '.':
		if len(name) > 1 && name[1] >= '0' && name[1] <= '9' {
			return errf(InvalidName, "word name %q collides with number syntax", name)
		}
	}
	for _, lit := range []string{"true", "false", "nil"} {
		if strings.HasPrefix(name, lit) {
			return errf(InvalidName, "word name %q collides with the literal %q", name, lit)
		}
	}
	return nil
}
