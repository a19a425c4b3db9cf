package sceneplan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Loader struct {
	dir   string
	cache map[string]*Plan
}

func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[string]*Plan),
	}
}

// Load reads <dir>/<name>.yaml (or name as given when it has an extension)
// and caches the result; later calls return the same *Plan.
func (l *Loader) Load(name string) (*Plan, error) {
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	if plan, ok := l.cache[name]; ok {
		return plan, nil
	}

	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("could not read scene plan: %w", err)
	}
	plan, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode scene plan %q: %w", name, err)
	}
	l.cache[name] = plan
	return plan, nil
}

// Decode parses a plan and checks its version.
func Decode(data []byte) (*Plan, error) {
	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return nil, err
	}
	if plan.Version != Version {
		return nil, fmt.Errorf("unsupported plan version %d", plan.Version)
	}
	if plan.Fire != nil && (plan.Fire.Tree < 0 || plan.Fire.Tree >= len(plan.Trees)) {
		return nil, fmt.Errorf("fire references tree %d of %d", plan.Fire.Tree, len(plan.Trees))
	}
	return &plan, nil
}

func Encode(plan *Plan) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the plan to path, creating parent directories.
func Save(path string, plan *Plan) error {
	if plan.Version == 0 {
		plan.Version = Version
	}
	data, err := Encode(plan)
	if err != nil {
		return fmt.Errorf("could not encode scene plan: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Rel makes target relative to the plan's directory when possible.
func Rel(planPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(planPath), target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return target
	}
	return filepath.ToSlash(rel)
}
