package levels

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/sokoban/game/engine"
	"gopkg.in/yaml.v3"
)

// levelDocument is the on-disk shape of a level file.
type levelDocument struct {
	ID          string      `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Layout      layoutField `yaml:"layout" json:"layout"`
}

// layoutField accepts either a block of text or a list of rows.
type layoutField []string

func splitLayout(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (l *layoutField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = splitLayout(node.Value)
		return nil
	case yaml.SequenceNode:
		var rows []string
		if err := node.Decode(&rows); err != nil {
			return err
		}
		*l = rows
		return nil
	default:
		return fmt.Errorf("layout must be a text block or a list of rows (line %d)", node.Line)
	}
}

func (l layoutField) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.LiteralStyle,
		Value: strings.Join(l, "\n") + "\n",
	}, nil
}

func (l *layoutField) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = splitLayout(text)
		return nil
	}

	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("layout must be a string or a list of strings: %w", err)
	}
	*l = rows
	return nil
}

func (d *levelDocument) toLevel(fallbackID string) *engine.Level {
	id := d.ID
	if id == "" {
		id = fallbackID
	}
	name := d.Name
	if name == "" {
		name = id
	}
	return &engine.Level{
		ID:          id,
		Name:        name,
		Description: d.Description,
		Layout:      append([]string(nil), d.Layout...),
	}
}

func documentFor(level *engine.Level) *levelDocument {
	return &levelDocument{
		ID:          level.ID,
		Name:        level.Name,
		Description: level.Description,
		Layout:      append(layoutField(nil), level.Layout...),
	}
}

// levelExtensions lists recognized level file extensions in lookup order.
var levelExtensions = []string{".yaml", ".yml", ".json"}

func isLevelFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range levelExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// ReadLevelFile decodes a YAML or JSON level file. The file stem is used as
// the ID when the document has none.
func ReadLevelFile(path string) (*engine.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc levelDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse level: %w", err)
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return doc.toLevel(stem), nil
}
