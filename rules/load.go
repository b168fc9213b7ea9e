package rules

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coregx/charnfa/internal/logging"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrUnknownBuiltin indicates a builtin rule set name that does not exist
var ErrUnknownBuiltin = errors.New("unknown builtin rule set")

// Load reads and validates the rule file at filename.
func Load(ctx context.Context, filename string) (*RuleSet, error) {
	logger := logging.FromContext(ctx)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if rs.Name == "" {
		rs.Name = strings.TrimSuffix(baseName(filename), ".yaml")
	}
	logger.Debug("loaded rules",
		logging.FieldPath, filename,
		logging.FieldRules, rs.Name,
		logging.FieldCount, len(rs.Rules),
	)
	return rs, nil
}

// Parse decodes and validates a YAML rule set. Unknown fields are errors.
// An empty document yields an empty rule set.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Marshal encodes rs as YAML.
func (rs *RuleSet) Marshal() ([]byte, error) {
	return yaml.Marshal(rs)
}

// Builtin returns one of the rule sets shipped with the package.
func Builtin(name string) (*RuleSet, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin %s: %w", name, err)
	}
	if rs.Name == "" {
		rs.Name = name
	}
	return rs, nil
}

// BuiltinNames lists the builtin rule sets in sorted order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
