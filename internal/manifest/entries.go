package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// A single info key and its value.
type InfoEntry struct {
	Key   string
	Value string
}

// Free-form metadata in document order.
//
// Stored as a slice so that rendering is deterministic; YAML and JSON
// encodings are plain mappings.
type Info []InfoEntry

// Returns the value of key and whether it is present.
func (i Info) Get(key string) (string, bool) {
	for _, e := range i {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Decodes a YAML mapping, keeping key order. Non-scalar values are kept as
// their YAML text.
func (i *Info) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("info: expected a mapping, got %s", kindName(node.Kind))
	}
	out := make(Info, 0, len(node.Content)/2)
	for k := 0; k+1 < len(node.Content); k += 2 {
		key, val := node.Content[k], node.Content[k+1]
		value := val.Value
		if val.Kind != yaml.ScalarNode {
			b, err := yaml.Marshal(val)
			if err != nil {
				return err
			}
			value = string(bytes.TrimSpace(b))
		}
		out = append(out, InfoEntry{Key: key.Value, Value: value})
	}
	*i = out
	return nil
}

// Encodes the entries as a YAML mapping in order.
func (i Info) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range i {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Value},
		)
	}
	return node, nil
}

// Encodes the entries as a JSON object in order.
func (i Info) MarshalJSON() ([]byte, error) {
	if i == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, e := range i {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decodes a JSON object of strings, keeping key order.
func (i *Info) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*i = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("info: expected an object")
	}
	out := Info{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("info %q: %w", key, err)
		}
		out = append(out, InfoEntry{Key: key, Value: value})
	}
	*i = out
	return nil
}

// A declared file. In YAML it is either a bare path-spec or a mapping.
type FileEntry struct {
	Src         string `yaml:"src" json:"src"`                                     // Path-spec.
	SkipCopy    bool   `yaml:"skipCopy,omitempty" json:"skipCopy,omitempty"`       // Listed but never copied.
	SkipResolve bool   `yaml:"skipResolve,omitempty" json:"skipResolve,omitempty"` // Listed verbatim instead of as resolved matches.
	ServerOnly  bool   `yaml:"serverOnly,omitempty" json:"serverOnly,omitempty"`   // Copied but never listed.
}

// Alias without methods, used to decode the mapping form.
type fileEntry FileEntry

func (f *FileEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = FileEntry{Src: node.Value}
		return nil
	}
	var raw fileEntry
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Src == "" {
		return fmt.Errorf("line %d: file entry without src", node.Line)
	}
	*f = FileEntry(raw)
	return nil
}

func (f *FileEntry) UnmarshalJSON(data []byte) error {
	var src string
	if err := json.Unmarshal(data, &src); err == nil {
		*f = FileEntry{Src: src}
		return nil
	}
	var raw fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FileEntry(raw)
	return nil
}

// An exported function. A bare name is a server export.
type Export struct {
	Function string `yaml:"function" json:"function"`
	Env      Env    `yaml:"env,omitempty" json:"env,omitempty"`
}

// Alias without methods, used to decode the mapping form.
type export Export

// Returns the declared environment, defaulting to the server.
func (e Export) Environment() Env {
	if e.Env == "" {
		return EnvServer
	}
	return e.Env
}

func (e *Export) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = Export{Function: node.Value}
		return nil
	}
	var raw export
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Function == "" {
		return fmt.Errorf("line %d: export without function", node.Line)
	}
	*e = Export(raw)
	return nil
}

func (e *Export) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*e = Export{Function: name}
		return nil
	}
	var raw export
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Export(raw)
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "mapping"
}
