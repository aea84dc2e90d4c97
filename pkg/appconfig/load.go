package appconfig

import (
	"errors"
	"log/slog"
	"os"

	"github.com/tidwall/gjson"

	"github.com/glxtools/appconf/pkg/jsonx"
	"github.com/glxtools/appconf/pkg/profile"
	"github.com/glxtools/appconf/pkg/rule"
	"github.com/glxtools/appconf/pkg/value"
)

// Load parses the global file and every file on the search path into a fresh
// configuration. A malformed file contributes nothing and is logged as a
// warning; only a missing search path makes the load itself fail, so a
// session always comes up even over broken files.
func Load(globalFile string, searchPath []string) *Configuration {
	cfg := NewConfiguration(globalFile, searchPath)

	loadGlobalFile(cfg)

	for _, file := range expandSearchPath(searchPath) {
		loadConfigFile(cfg, file)
	}

	return cfg
}

func loadGlobalFile(cfg *Configuration) {
	if cfg.GlobalFile == "" {
		return
	}

	data, err := readFile(cfg.GlobalFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("global settings file not loaded",
				slog.String("path", cfg.GlobalFile),
				slog.Any("error", err),
			)
		}

		return
	}

	res, err := jsonx.ParseFile(cfg.GlobalFile, data)
	if err != nil {
		slog.Warn("malformed global settings file, using defaults",
			slog.String("path", cfg.GlobalFile),
			slog.Any("error", err),
		)

		return
	}

	if enabled := res.Get("enabled"); enabled.Exists() {
		cfg.Enabled = enabled.Bool()
	}
}

func loadConfigFile(cfg *Configuration, file string) {
	data, err := readFile(file)
	if err != nil {
		slog.Warn("cannot read configuration file",
			slog.String("path", file),
			slog.Any("error", err),
		)

		return
	}

	res, err := jsonx.ParseFile(file, data)
	if err != nil {
		slog.Warn("malformed configuration file, skipping its contents",
			slog.String("path", file),
			slog.Any("error", err),
		)

		return
	}

	res.Get("rules").ForEach(func(_, r gjson.Result) bool {
		loadRule(cfg, file, r)

		return true
	})

	res.Get("profiles").ForEach(func(name, body gjson.Result) bool {
		loadProfile(cfg, file, name.String(), body)

		return true
	})
}

func loadRule(cfg *Configuration, file string, res gjson.Result) {
	featureStr := res.Get("pattern.feature").String()

	feature, err := rule.ParseFeature(featureStr)
	if err != nil {
		slog.Warn("skipping rule with unknown pattern feature",
			slog.String("path", file),
			slog.String("feature", featureStr),
		)

		return
	}

	cfg.Rules.Create(file, rule.Pattern{
		Feature: feature,
		Matches: res.Get("pattern.matches").String(),
	}, res.Get("profile").String())
}

func loadProfile(cfg *Configuration, file, name string, body gjson.Result) {
	if _, exists := cfg.Profiles.Get(name); exists {
		// Earlier files on the search path take precedence.
		slog.Warn("duplicate profile name, keeping the higher-precedence definition",
			slog.String("path", file),
			slog.String("profile", name),
		)

		return
	}

	var settings []profile.Setting

	body.Get("settings").ForEach(func(_, s gjson.Result) bool {
		v, err := value.FromJSON(s.Get("value"))
		if err != nil {
			// Substitute the placeholder rather than dropping the setting.
			slog.Warn("illegal setting value, substituting false",
				slog.String("path", file),
				slog.String("profile", name),
				slog.String("key", s.Get("key").String()),
				slog.Any("error", err),
			)
		}

		settings = append(settings, profile.Setting{
			Key:   s.Get("key").String(),
			Value: v,
		})

		return true
	})

	cfg.Profiles.Upsert(profile.New(name, file, settings...))
}
