// Package config provides configuration structures and utilities for profscan.
// It defines the main configuration options for search runs, browser
// behavior, and report generation preferences.
package config
