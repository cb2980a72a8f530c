// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt templates
//   - PromptWatcher: Reloads prompts when their files change
//   - LoadManifest: YAML corpus manifest
package file
