package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix marks environment overrides: SNAPCURSOR_SNAP_VERTEX_RADIUS=25
// sets [snap] vertex_radius.
const EnvPrefix = "SNAPCURSOR_"

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error; an
// empty path skips the file.
func Load(path string) (Config, error) {
	return LoadWith(path, os.Environ())
}

// LoadWith is Load with an explicit environment, in os.Environ form.
func LoadWith(path string, environ []string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		default:
			if err := decodeInto(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}
	if err := applyEnv(environ, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromReader reads TOML from r over the defaults and validates it.
// The environment is not consulted.
func LoadFromReader(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading: %w", err)
	}
	cfg := Default()
	if err := decodeInto("<reader>", data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeInto decodes data onto cfg, leaving absent keys untouched. Unknown
// keys are rejected.
func decodeInto(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

// applyEnv decodes SNAPCURSOR_<SECTION>_<KEY> variables onto cfg.
func applyEnv(environ []string, cfg *Config) error {
	overrides := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || key == "" {
			continue
		}
		sec, _ := overrides[section].(map[string]any)
		if sec == nil {
			sec = make(map[string]any)
			overrides[section] = sec
		}
		v, err := parseValue(value, fieldKind(section, key))
		if err != nil {
			return &ParseError{Path: "<environment>", Message: fmt.Sprintf("%s: %v", name, err), Err: err}
		}
		sec[key] = v
	}
	if len(overrides) == 0 {
		return nil
	}
	data, err := toml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("config: encoding environment overrides: %w", err)
	}
	return decodeInto("<environment>", data, cfg)
}

// fieldKind returns the kind of the Config field tagged section.key, or
// reflect.Invalid if there is none.
func fieldKind(section, key string) reflect.Kind {
	ct := reflect.TypeOf(Config{})
	for i := 0; i < ct.NumField(); i++ {
		sf := ct.Field(i)
		if sf.Tag.Get("toml") != section {
			continue
		}
		st := sf.Type
		for j := 0; j < st.NumField(); j++ {
			if st.Field(j).Tag.Get("toml") == key {
				return st.Field(j).Type.Kind()
			}
		}
	}
	return reflect.Invalid
}

// parseValue converts an environment string to the TOML value for a field
// of the given kind. Unknown fields keep the raw string so the strict
// decoder reports them.
func parseValue(s string, kind reflect.Kind) (any, error) {
	switch kind {
	case reflect.Int, reflect.Int64:
		return strconv.ParseInt(s, 10, 64)
	case reflect.Float64:
		return strconv.ParseFloat(s, 64)
	case reflect.Bool:
		return strconv.ParseBool(s)
	default:
		return s, nil
	}
}

// ParseError represents an error while decoding a configuration source.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("config: parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("config: parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("config: parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
