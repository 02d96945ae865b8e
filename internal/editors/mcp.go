package editors

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"loom/internal/global"
	"loom/internal/plan"

	"github.com/pelletier/go-toml/v2"
)

// projectJSONMCP writes a per-project JSON file with the server map under a
// nested section key ("mcpServers" for every editor that supports it).
type projectJSONMCP struct {
	relPath    string
	sectionKey string
}

func (s projectJSONMCP) Supported() bool           { return true }
func (s projectJSONMCP) GlobalOnly() bool          { return false }
func (s projectJSONMCP) SectionKey() string        { return s.sectionKey }
func (s projectJSONMCP) FileFormat() global.Format { return global.FormatJSON }

func (s projectJSONMCP) ConfigPath(root, home string) string {
	return filepath.Join(root, s.relPath)
}

func (s projectJSONMCP) FormatConfig(servers map[string]ServerConfig) (string, error) {
	return formatServersJSON(s.sectionKey, servers)
}

func (s projectJSONMCP) ParseGlobalConfig(content []byte) (map[string]ServerConfig, []string) {
	return parseServersJSON(content, s.sectionKey)
}

// globalJSONMCP is for editors whose MCP servers live in one shared JSON
// file under the user's home directory.
type globalJSONMCP struct {
	homeRelPath string
	sectionKey  string
}

func (s globalJSONMCP) Supported() bool           { return true }
func (s globalJSONMCP) GlobalOnly() bool          { return true }
func (s globalJSONMCP) SectionKey() string        { return s.sectionKey }
func (s globalJSONMCP) FileFormat() global.Format { return global.FormatJSON }

func (s globalJSONMCP) ConfigPath(root, home string) string {
	return filepath.Join(home, s.homeRelPath)
}

func (s globalJSONMCP) FormatConfig(servers map[string]ServerConfig) (string, error) {
	return formatServersJSON(s.sectionKey, servers)
}

func (s globalJSONMCP) ParseGlobalConfig(content []byte) (map[string]ServerConfig, []string) {
	return parseServersJSON(content, s.sectionKey)
}

// globalTOMLMCP is for editors whose MCP servers live as nested tables in a
// shared TOML config under the user's home directory.
type globalTOMLMCP struct {
	homeRelPath string
	sectionKey  string
}

func (s globalTOMLMCP) Supported() bool           { return true }
func (s globalTOMLMCP) GlobalOnly() bool          { return true }
func (s globalTOMLMCP) SectionKey() string        { return s.sectionKey }
func (s globalTOMLMCP) FileFormat() global.Format { return global.FormatTOML }

func (s globalTOMLMCP) ConfigPath(root, home string) string {
	return filepath.Join(home, s.homeRelPath)
}

func (s globalTOMLMCP) FormatConfig(servers map[string]ServerConfig) (string, error) {
	section := map[string]interface{}{}
	for name, cfg := range servers {
		section[name] = map[string]interface{}(cfg)
	}
	out, err := toml.Marshal(map[string]interface{}{s.sectionKey: section})
	if err != nil {
		return "", fmt.Errorf("failed to render TOML server config: %w", err)
	}
	return string(out), nil
}

func (s globalTOMLMCP) ParseGlobalConfig(content []byte) (map[string]ServerConfig, []string) {
	var root map[string]interface{}
	if err := toml.Unmarshal(content, &root); err != nil {
		return map[string]ServerConfig{}, []string{fmt.Sprintf("shared config is not valid TOML: %v", err)}
	}
	section, _ := root[s.sectionKey].(map[string]interface{})
	out := make(map[string]ServerConfig, len(section))
	var warnings []string
	for name, v := range section {
		m, ok := v.(map[string]interface{})
		if !ok {
			warnings = append(warnings, fmt.Sprintf("server %q has a non-table definition, ignoring", name))
			continue
		}
		out[name] = ServerConfig(m)
	}
	return out, warnings
}

// unsupportedMCP is for editors with no MCP mechanism at all.
type unsupportedMCP struct{}

func (unsupportedMCP) Supported() bool                          { return false }
func (unsupportedMCP) GlobalOnly() bool                         { return false }
func (unsupportedMCP) SectionKey() string                       { return "" }
func (unsupportedMCP) FileFormat() global.Format                { return global.FormatJSON }
func (unsupportedMCP) ConfigPath(root, home string) string      { return "" }
func (unsupportedMCP) FormatConfig(map[string]ServerConfig) (string, error) {
	return "", fmt.Errorf("mcp servers are not supported by this editor")
}
func (unsupportedMCP) ParseGlobalConfig([]byte) (map[string]ServerConfig, []string) {
	return map[string]ServerConfig{}, nil
}

func formatServersJSON(sectionKey string, servers map[string]ServerConfig) (string, error) {
	section := map[string]interface{}{}
	for name, cfg := range servers {
		section[name] = map[string]interface{}(cfg)
	}
	return plan.MarshalJSON(map[string]interface{}{sectionKey: section})
}

func parseServersJSON(content []byte, sectionKey string) (map[string]ServerConfig, []string) {
	var root map[string]interface{}
	if err := json.Unmarshal(content, &root); err != nil {
		return map[string]ServerConfig{}, []string{fmt.Sprintf("shared config is not valid JSON: %v", err)}
	}
	section, _ := root[sectionKey].(map[string]interface{})
	out := make(map[string]ServerConfig, len(section))
	var warnings []string
	for name, v := range section {
		m, ok := v.(map[string]interface{})
		if !ok {
			warnings = append(warnings, fmt.Sprintf("server %q has a non-object definition, ignoring", name))
			continue
		}
		out[name] = ServerConfig(m)
	}
	return out, warnings
}
