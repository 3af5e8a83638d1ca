package manifest

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Execution environment of a script or export.
type Env string

const (
	EnvShared Env = "shared"
	EnvServer Env = "server"
	EnvClient Env = "client"
)

// Parsed configuration of a single resource.
type Manifest struct {
	Info Info `yaml:"info,omitempty" json:"info"` // Free-form metadata, rendered as comments.

	FxVersion              string `yaml:"fx_version,omitempty" json:"fx_version,omitempty"`
	Game                   string `yaml:"game,omitempty" json:"game,omitempty"`
	Lua54                  bool   `yaml:"lua54,omitempty" json:"lua54,omitempty"`
	NodeVersion            string `yaml:"node_version,omitempty" json:"node_version,omitempty"`
	UseExperimentalFxv2Oal bool   `yaml:"use_experimental_fxv2_oal,omitempty" json:"use_experimental_fxv2_oal,omitempty"`
	ServerOnly             bool   `yaml:"server_only,omitempty" json:"server_only,omitempty"`

	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`         // Merged over the session default environment.
	Files   []FileEntry       `yaml:"files,omitempty" json:"files"`               // Nil when the key is absent.
	Scripts Scripts           `yaml:"scripts,omitempty" json:"scripts,omitempty"` // Path-specs per environment.
	Exports []Export          `yaml:"exports,omitempty" json:"exports"`           // Nil when the key is absent.
	Hooks   map[string]string `yaml:"hooks,omitempty" json:"hooks,omitempty"`     // Hook point to script declaration.
}

// Script path-specs per environment. Shared entries apply to every
// environment and are listed before the environment's own entries.
type Scripts struct {
	Shared []string `yaml:"shared,omitempty" json:"shared,omitempty"`
	Server []string `yaml:"server,omitempty" json:"server,omitempty"`
	Client []string `yaml:"client,omitempty" json:"client,omitempty"`
}

// Returns the shared entries followed by the entries of env.
func (s Scripts) For(env Env) []string {
	var own []string
	switch env {
	case EnvServer:
		own = s.Server
	case EnvClient:
		own = s.Client
	}
	out := make([]string, 0, len(s.Shared)+len(own))
	out = append(out, s.Shared...)
	return append(out, own...)
}

// Decodes a manifest document. An empty document yields an empty manifest.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return m, nil
}

// Reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Parse(data)
}

// Reads the manifest at path, logging and returning an empty manifest on
// any failure. The resource name is only used for log correlation.
func LoadOrEmpty(path, resource string) *Manifest {
	m, err := Load(path)
	if err != nil {
		slog.Warn("using empty manifest", "resource", resource, "path", path, "error", err)
		return &Manifest{}
	}
	return m
}

// Returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return &Manifest{}
	}
	c := *m
	c.Info = slices.Clone(m.Info)
	c.Env = maps.Clone(m.Env)
	c.Files = slices.Clone(m.Files)
	c.Scripts = Scripts{
		Shared: slices.Clone(m.Scripts.Shared),
		Server: slices.Clone(m.Scripts.Server),
		Client: slices.Clone(m.Scripts.Client),
	}
	c.Exports = slices.Clone(m.Exports)
	c.Hooks = maps.Clone(m.Hooks)
	return &c
}
