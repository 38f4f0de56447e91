// Package config loads, validates, and hot-reloads the advisor's YAML
// configuration. Load applies defaults for absent fields; Watch reloads the
// file on change via fsnotify so scoring policy tweaks take effect without
// a restart. Webhook URLs are resolved from environment variables, never
// stored in the file.
package config
