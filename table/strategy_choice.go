package table

import (
	"fmt"

	"github.com/ndn-fwd/corefwd/ndn"
)

// Strategy is the minimal surface the table package needs from a strategy
// instance. The fw package's richer Strategy interface (the five trigger
// methods) embeds this, so any fw strategy can be stored here without
// table importing fw.
type Strategy interface {
	Name() string
}

// StrategyFactory constructs a fresh Strategy instance by registered name.
type StrategyFactory func() Strategy

// StrategyChoiceEntry maps one prefix to the strategy instance effective
// for it.
type StrategyChoiceEntry struct {
	node     *Node
	strategy Strategy
}

// Name returns the entry's prefix.
func (e *StrategyChoiceEntry) Name() ndn.Name { return e.node.Name }

// Strategy returns the strategy instance installed at this prefix.
func (e *StrategyChoiceEntry) Strategy() Strategy { return e.strategy }

// StrategyChoice is the tree mapping prefix to strategy instance, resolved
// by longest-prefix match along the NameTree.
type StrategyChoice struct {
	tree      *NameTree
	factories map[string]StrategyFactory
	root      *StrategyChoiceEntry
}

// NewStrategyChoice installs defaultStrategy at `/` - the one strategy
// choice that can never be erased.
func NewStrategyChoice(tree *NameTree, factories map[string]StrategyFactory, defaultStrategy string) (*StrategyChoice, error) {
	sc := &StrategyChoice{tree: tree, factories: factories}
	factory, ok := factories[defaultStrategy]
	if !ok {
		return nil, fmt.Errorf("strategy-choice: unknown default strategy %q", defaultStrategy)
	}
	root := tree.Root()
	entry := &StrategyChoiceEntry{node: root, strategy: factory()}
	root.Strategy = entry
	sc.root = entry
	return sc, nil
}

// Insert instantiates strategyName at prefix, replacing any existing
// choice there. Fails if strategyName is not registered.
func (sc *StrategyChoice) Insert(prefix ndn.Name, strategyName string) (*StrategyChoiceEntry, error) {
	factory, ok := sc.factories[strategyName]
	if !ok {
		return nil, fmt.Errorf("strategy-choice: unknown strategy %q", strategyName)
	}
	node := sc.tree.Lookup(prefix)
	entry := &StrategyChoiceEntry{node: node, strategy: factory()}
	node.Strategy = entry
	return entry, nil
}

// Erase removes the strategy choice at prefix, letting it inherit from its
// parent's choice again. Fails on the root, which is immovable.
func (sc *StrategyChoice) Erase(prefix ndn.Name) error {
	node := sc.tree.Lookup(prefix)
	if node == sc.tree.Root() {
		return fmt.Errorf("strategy-choice: cannot unset the root strategy choice")
	}
	if node.Parent() == nil {
		return fmt.Errorf("strategy-choice: no parent choice to inherit from")
	}
	node.Strategy = nil
	sc.tree.EraseIfEmpty(node)
	return nil
}

// FindEffectiveStrategy resolves the strategy effective for name by
// longest-prefix match; always succeeds because the root choice always
// exists.
func (sc *StrategyChoice) FindEffectiveStrategy(name ndn.Name) Strategy {
	node := sc.tree.FindLongestPrefixMatch(name, func(n *Node) bool { return n.Strategy != nil })
	if node == nil {
		return sc.root.strategy
	}
	return node.Strategy.strategy
}

// GetAll returns every strategy choice entry, for the
// `strategy-choice/list` status dataset.
func (sc *StrategyChoice) GetAll() []*StrategyChoiceEntry {
	var out []*StrategyChoiceEntry
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Strategy != nil {
			out = append(out, n.Strategy)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(sc.tree.Root())
	return out
}
