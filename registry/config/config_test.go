package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndef-formatter/internal/diagnostic"
	"ndef-formatter/ndef"
	"ndef-formatter/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	r, err := registry.NewDefault()
	require.NoError(t, err)

	return r
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("aliases:\n  long: int64\n"))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "slice", cfg.PreferredList)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, map[string]string{"long": "int64"}, cfg.Aliases)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestParseTOML(t *testing.T) {
	data := `
version = "1"
preferred_list = "Growable"
identity_root = "entity"
log_level = "debug"

[aliases]
long = "int64"
guid = "uuid"
`
	cfg, err := ParseTOML([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "growable", cfg.PreferredList)
	assert.Equal(t, "entity", cfg.IdentityRoot)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Len(t, cfg.Aliases, 2)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("aliases: [unterminated"))
	require.Error(t, err)

	_, err = ParseTOML([]byte("aliases = "))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "registry.yml")
	require.NoError(t, WriteFile(&Config{Version: "1", PreferredList: "growable"}, yamlPath))

	cfg, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "growable", cfg.PreferredList)

	tomlPath := filepath.Join(dir, "registry.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`log_level = "warn"`), 0644))

	cfg, err = LoadFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())

	_, err = LoadFile(filepath.Join(dir, "registry.json"))
	require.Error(t, err)

	jsonPath := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0644))
	_, err = LoadFile(jsonPath)
	require.ErrorContains(t, err, "unsupported config file extension")
}

func TestValidate(t *testing.T) {
	r := newRegistry(t)

	cfg := &Config{
		Version:       "2",
		PreferredList: "linked",
		IdentityRoot:  "entity",
		LogLevel:      "loud",
		Aliases: map[string]string{
			"long":  "int64",
			"short": "in16",
			"int32": "int64",
		},
	}

	diags := cfg.Validate(r)
	require.True(t, diags.HasErrors())

	codes := func(ds []diagnostic.Diagnostic) []string {
		var out []string
		for _, d := range ds {
			out = append(out, d.Code)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"preferred_list", "identity_root", "alias_collision", "alias_target"}, codes(diags.Errors))
	assert.ElementsMatch(t, []string{"version", "log_level"}, codes(diags.Warnings))

	for _, d := range diags.Errors {
		if d.Code == "alias_target" {
			assert.Equal(t, "aliases.short", d.Key)
			assert.Contains(t, d.Suggestions, "int16")
		}
	}

	err := cfg.Apply(r)
	require.ErrorIs(t, err, diagnostic.ErrInvalid)
}

type entity interface{ Key() string }

func TestApply(t *testing.T) {
	r := newRegistry(t)
	r.DeclareRoot("entity", reflect.TypeFor[entity]())

	cfg, err := Parse([]byte(`
preferred_list: growable
identity_root: entity
aliases:
  long: int64
  guid: uuid
`))
	require.NoError(t, err)
	diags := cfg.Validate(r)
	require.True(t, diags.IsValid(), "%v", diags.Errors)

	require.NoError(t, cfg.Apply(r))
	require.NoError(t, r.Seal())

	assert.Equal(t, registry.ListShapeGrowable, r.PreferredListShape())
	assert.Equal(t, reflect.TypeFor[entity](), r.IdentityRoot())

	ti, err := r.LookupTypeInfoByName("guid")
	require.NoError(t, err)
	assert.Equal(t, "uuid", ti.Name)

	list, err := r.LookupTypeInfoByType(r.PreferredListType(ndef.AnyType))
	require.NoError(t, err)
	assert.Equal(t, "*[]any", list.Name)
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(&Config{Version: "1", PreferredList: "slice", Aliases: map[string]string{"long": "int64"}})
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "int64", back.Aliases["long"])
}
