// Package config persists the tool's settings and stored credentials.
//
// Settings live in a YAML file under the platform config directory:
//   - Linux: $XDG_CONFIG_HOME/ra2audit/config.yaml or $HOME/.config/ra2audit/config.yaml
//   - macOS: $HOME/.config/ra2audit/config.yaml
//   - Windows: %LOCALAPPDATA%\ra2audit\config.yaml
//
// Settings are loaded once at startup into an explicit struct and passed
// to the components that need them; there is no ambient global state.
// Writes are atomic (temp file + rename) so a crash mid-save cannot
// corrupt the file.
//
// Integration passwords are kept out of config.yaml. They live in a
// separate credentials file with 0600 permissions, keyed by controller
// host and username; lookups that miss or fail just report "not stored"
// so the caller can fall back to prompting.
package config
