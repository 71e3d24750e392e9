// Package main provides the entry point for the profscan CLI.
//
// profscan renders search engine result pages in headless Chrome and
// collects links to public LinkedIn profiles.
//
// Usage:
//
//	profscan search "golang engineer"
//	profscan search --batch-file queries.txt
//
// See --help for all available options.
package main

// main is the entry point for profscan.
func main() {
	Execute()
}
