// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional config
// file. Settings are read once at process start and passed explicitly to the
// components that need them.
package config
