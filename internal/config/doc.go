// Package config holds the settings shared by every stopverifage command.
//
// Values are layered: NewConfig defaults, then the YAML configuration
// file, then environment variables, then command-line flags. Each layer
// only overrides what it sets.
package config
