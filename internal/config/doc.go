// Package config provides configuration structures and utilities for grinscan.
// It defines the log sources to read, the analyses to run over them, and
// report output preferences.
package config
