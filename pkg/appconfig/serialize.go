package appconfig

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/glxtools/appconf/pkg/jsonx"
	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/rule"
)

// serializeFile regenerates the full text of one configuration file from the
// in-memory entities belonging to it. Rules appear in priority order and
// profiles in name order, so entities untouched by an edit are reproduced
// byte-for-byte.
func serializeFile(cfg *Configuration, file string) ([]byte, error) {
	raw := []byte(`{"rules":[`)

	for i, r := range cfg.Rules.ForFile(file) {
		if i > 0 {
			raw = append(raw, ',')
		}

		ruleJSON, err := serializeRule(r)
		if err != nil {
			return nil, err
		}

		raw = append(raw, ruleJSON...)
	}

	raw = append(raw, `],"profiles":{`...)

	for i, p := range cfg.Profiles.ForFile(file) {
		if i > 0 {
			raw = append(raw, ',')
		}

		raw = jsonx.AppendString(raw, p.Name)
		raw = append(raw, ':')

		profileJSON, err := serializeProfile(p)
		if err != nil {
			return nil, err
		}

		raw = append(raw, profileJSON...)
	}

	raw = append(raw, `}}`...)

	return jsonx.Format(raw), nil
}

func serializeRule(r *rule.Rule) ([]byte, error) {
	doc, err := sjson.Set(`{}`, "pattern.feature", r.Pattern.Feature.String())
	if err != nil {
		return nil, fmt.Errorf("serialize rule %d: %w", r.ID, err)
	}

	doc, err = sjson.Set(doc, "pattern.matches", r.Pattern.Matches)
	if err != nil {
		return nil, fmt.Errorf("serialize rule %d: %w", r.ID, err)
	}

	doc, err = sjson.Set(doc, "profile", r.ProfileName)
	if err != nil {
		return nil, fmt.Errorf("serialize rule %d: %w", r.ID, err)
	}

	return []byte(doc), nil
}

func serializeProfile(p *profile.Profile) ([]byte, error) {
	raw := []byte(`{"settings":[`)

	for i, s := range p.Settings {
		if i > 0 {
			raw = append(raw, ',')
		}

		settingJSON, err := serializeSetting(p.Name, s)
		if err != nil {
			return nil, err
		}

		raw = append(raw, settingJSON...)
	}

	return append(raw, `]}`...), nil
}

func serializeSetting(profileName string, s profile.Setting) ([]byte, error) {
	doc, err := sjson.Set(`{}`, "key", s.Key)
	if err != nil {
		return nil, fmt.Errorf("serialize profile %q setting %q: %w", profileName, s.Key, err)
	}

	doc, err = sjson.SetRaw(doc, "value", string(s.Value.AppendJSON(nil)))
	if err != nil {
		return nil, fmt.Errorf("serialize profile %q setting %q: %w", profileName, s.Key, err)
	}

	return []byte(doc), nil
}

// serializeGlobalFile regenerates the global settings file text.
func serializeGlobalFile(cfg *Configuration) ([]byte, error) {
	doc, err := sjson.Set(`{}`, "enabled", cfg.Enabled)
	if err != nil {
		return nil, fmt.Errorf("serialize global settings: %w", err)
	}

	return jsonx.Format([]byte(doc)), nil
}
