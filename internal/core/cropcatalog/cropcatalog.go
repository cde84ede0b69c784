// Package cropcatalog keeps crops in a binary search tree ordered by id.
package cropcatalog

import (
	"iter"
	"slices"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

// DuplicatePolicy decides what happens when an id is already present.
type DuplicatePolicy int

const (
	// DuplicatesRight places an equal id in the right subtree of the existing
	// node, so both crops are kept and listed in insertion order.
	DuplicatesRight DuplicatePolicy = iota
	// DuplicatesReplace overwrites the existing node's crop.
	DuplicatesReplace
)

// ParsePolicy maps "right" / "replace" to a policy.
func ParsePolicy(s string) (DuplicatePolicy, bool) {
	switch s {
	case "", "right":
		return DuplicatesRight, true
	case "replace":
		return DuplicatesReplace, true
	}
	return DuplicatesRight, false
}

const nilNode = -1

type node struct {
	crop        entities.Crop
	left, right int
}

// Catalog is an unbalanced BST stored in an arena; children are indexes into
// nodes. Insert and traversal are iterative, so a sorted insertion sequence
// degrading the tree into a list does not grow the call stack.
type Catalog struct {
	nodes  []node
	root   int
	policy DuplicatePolicy
}

func New() *Catalog { return NewWithPolicy(DuplicatesRight) }

func NewWithPolicy(p DuplicatePolicy) *Catalog {
	return &Catalog{root: nilNode, policy: p}
}

func (c *Catalog) Policy() DuplicatePolicy { return c.policy }

// Insert places crop by id.
func (c *Catalog) Insert(crop entities.Crop) {
	n := node{crop: crop, left: nilNode, right: nilNode}
	if c.root == nilNode {
		c.nodes = append(c.nodes, n)
		c.root = len(c.nodes) - 1
		return
	}
	cur := c.root
	for {
		cn := &c.nodes[cur]
		if crop.ID == cn.crop.ID && c.policy == DuplicatesReplace {
			cn.crop = crop
			return
		}
		link := &cn.right
		if crop.ID < cn.crop.ID {
			link = &cn.left
		}
		if *link == nilNode {
			c.nodes = append(c.nodes, n)
			// re-resolve: append may have moved the arena
			if crop.ID < c.nodes[cur].crop.ID {
				c.nodes[cur].left = len(c.nodes) - 1
			} else {
				c.nodes[cur].right = len(c.nodes) - 1
			}
			return
		}
		cur = *link
	}
}

// Get returns the first crop found with id walking down from the root.
func (c *Catalog) Get(id int) (entities.Crop, bool) {
	cur := c.root
	for cur != nilNode {
		n := c.nodes[cur]
		switch {
		case id == n.crop.ID:
			return n.crop, true
		case id < n.crop.ID:
			cur = n.left
		default:
			cur = n.right
		}
	}
	return entities.Crop{}, false
}

// InOrder yields crops in ascending id order as of the call. Later inserts
// are not observed.
func (c *Catalog) InOrder() iter.Seq[entities.Crop] {
	nodes := slices.Clone(c.nodes)
	root := c.root
	return func(yield func(entities.Crop) bool) {
		var stack []int
		cur := root
		for cur != nilNode || len(stack) > 0 {
			for cur != nilNode {
				stack = append(stack, cur)
				cur = nodes[cur].left
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(nodes[cur].crop) {
				return
			}
			cur = nodes[cur].right
		}
	}
}

func (c *Catalog) Len() int { return len(c.nodes) }

// Height is the number of nodes on the longest root-to-leaf path.
func (c *Catalog) Height() int {
	if c.root == nilNode {
		return 0
	}
	type frame struct{ idx, depth int }
	best := 0
	stack := []frame{{c.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > best {
			best = f.depth
		}
		n := c.nodes[f.idx]
		if n.left != nilNode {
			stack = append(stack, frame{n.left, f.depth + 1})
		}
		if n.right != nilNode {
			stack = append(stack, frame{n.right, f.depth + 1})
		}
	}
	return best
}
