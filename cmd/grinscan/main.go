// Package main provides the entry point for the grinscan CLI.
//
// grinscan reads Grin node logs, extracts the transactions each node
// received, and measures how many transaction kernels can be attributed to
// a single transaction by iterative elimination.
//
// Usage:
//
//	grinscan analyze aws_eu=aws_eu.log.gz htz_eu=htz_eu.log.gz
//	grinscan analyze -c .grinscan --json
//
// See --help for all available options.
package main

func main() {
	Execute()
}
