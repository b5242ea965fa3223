// Package nav implements the `nav` block, a list of choices that move the
// navigation focus to a heading anchor.
//
//	```nav
//	- label: Enter the cave
//	  target: the-cave
//	  when: $has_torch
//	  set: inc $visits
//	- label: Go home
//	  target: "#home"
//	```
package nav

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/command"
	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/expr"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
	"gopkg.in/yaml.v3"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type choiceSpec struct {
	Label  string         `yaml:"label"`
	Target string         `yaml:"target"`
	When   string         `yaml:"when"`
	Set    command.Script `yaml:"set"`
}

// Choice is one parsed navigation option.
type Choice struct {
	Label  string
	Target string
	When   expr.Expr
	Set    []command.Command
}

// Block is a parsed nav block.
type Block struct {
	Choices []Choice
	src     *document.Block
}

// Refs implements registry.Block. Commands only run on activation, so
// they are not part of the dependency set.
func (b *Block) Refs() []value.Path {
	var out []value.Path
	seen := make(map[string]bool)
	add := func(ps []value.Path) {
		for _, p := range ps {
			if k := p.String(); !seen[k] {
				seen[k] = true
				out = append(out, p)
			}
		}
	}
	for _, c := range b.Choices {
		if c.When != nil {
			add(expr.Refs(c.When))
		}
		add(document.Refs(c.Label))
	}
	return out
}

// Parse reads the choice list. The body may be a bare list or a mapping
// with a `choices` key.
func Parse(ctx context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	var specs []choiceSpec
	if err := decode(src.Body, &specs); err != nil {
		return nil, registry.Errorf(src.Range, "Invalid nav", "%v", err)
	}
	if len(specs) == 0 {
		return nil, registry.Errorf(src.Range, "Invalid nav", "a nav block needs at least one choice")
	}

	b := &Block{src: src}
	for i, s := range specs {
		c := Choice{Label: s.Label, Target: strings.TrimPrefix(strings.TrimSpace(s.Target), "#")}
		if c.Target == "" {
			return nil, registry.Errorf(src.Range, "Invalid nav choice", "choice %d has no target", i+1)
		}
		if c.Label == "" {
			c.Label = c.Target
		}
		if s.When != "" {
			e, err := expr.Parse(s.When)
			if err != nil {
				return nil, registry.Errorf(src.Range, "Invalid nav choice", "choice %d: when: %v", i+1, err)
			}
			c.When = e
		}
		cmds, err := s.Set.Parse()
		if err != nil {
			return nil, registry.Errorf(src.Range, "Invalid nav choice", "choice %d: set: %v", i+1, err)
		}
		c.Set = cmds
		b.Choices = append(b.Choices, c)
	}

	ctxlog.FromContext(ctx).Debug("Parsed nav block.", "choices", len(b.Choices))
	return b, nil
}

func decode(body string, out *[]choiceSpec) error {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(body), &root); err != nil {
		return err
	}
	if len(root.Content) == 0 {
		return nil
	}
	n := root.Content[0]
	if n.Kind == yaml.MappingNode {
		var wrapped struct {
			Choices []choiceSpec `yaml:"choices"`
		}
		if err := n.Decode(&wrapped); err != nil {
			return err
		}
		*out = wrapped.Choices
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of choices", n.Line)
	}
	return n.Decode(out)
}

func (c Choice) visible(p registry.Pass) bool {
	return c.When == nil || p.Test(c.When)
}

// Render lists the visible choices.
func Render(_ context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*Block)
	node := &render.Nav{Source: b.src.Range}
	for _, c := range b.Choices {
		if !c.visible(p) {
			continue
		}
		node.Choices = append(node.Choices, render.Choice{Label: p.Interpolate(c.Label), Target: c.Target})
	}
	if len(node.Choices) == 0 {
		return nil, nil
	}
	return []render.Node{node}, nil
}

// Activate implements registry.NavBlock.
func (b *Block) Activate(ctx context.Context, p registry.Pass, anchor string) (bool, error) {
	for _, c := range b.Choices {
		if c.Target != anchor || !c.visible(p) {
			continue
		}
		ctxlog.FromContext(ctx).Debug("Nav choice activated.", "target", anchor, "commands", len(c.Set))
		return true, p.Exec(c.Set)
	}
	return false, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{
		Kind:    registry.KindNav,
		Guarded: true,
		Parse:   Parse,
		Render:  Render,
	})
}
