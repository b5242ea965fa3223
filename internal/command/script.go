package command

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Script is a command list embedded in a YAML block body. It accepts either
// a (possibly multi-line) string or a sequence of strings.
type Script []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Script) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*s = Script{n.Value}
		return nil
	case yaml.SequenceNode:
		out := make(Script, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: commands must be strings", c.Line)
			}
			out = append(out, c.Value)
		}
		*s = out
		return nil
	}
	return fmt.Errorf("line %d: expected a command string or a list of commands", n.Line)
}

// Parse parses the script's commands.
func (s Script) Parse() ([]Command, error) {
	return Parse(strings.Join(s, "\n"))
}
