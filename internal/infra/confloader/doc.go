// Package confloader loads layered configuration with koanf.
//
// Sources are applied in order defaults, YAML file, environment, so
// later sources override earlier ones. Environment keys map to
// "section.key": with prefix TODO_STUB_, TODO_STUB_AUTH_TOKEN_TTL
// becomes auth.token_ttl. Only the first underscore after the prefix
// separates the section.
//
// Watcher reports changes to a single file so long-running processes
// can re-read settings such as log.level.
package confloader
