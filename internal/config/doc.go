// Package config loads the capital agent settings from the environment,
// an optional .env file and an optional YAML agent definition.
package config
