package aboutme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDraft reads a YAML draft file.
func LoadDraft(path string) (Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var d Draft
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("parse draft %s: %w", path, err)
	}
	return d, nil
}

// SaveDraft writes d as YAML, replacing path.
func SaveDraft(path string, d Draft) error {
	d.Skills = nonNil(d.Skills)
	d.Endorsements = nonNil(d.Endorsements)
	d.Interests = nonNil(d.Interests)
	d.Invitees = nonNil(d.Invitees)
	raw, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}
