// Command hexpat checks pattern ASTs produced by an external parser before
// they are handed to the evaluator.
//
// Usage:
//
//	# Check documents or whole directories
//	hexpat check header.yaml patterns/
//
//	# Re-check on every change and serve metrics
//	hexpat watch patterns/ --metrics-addr :2112
//
//	# Print the tree of a document (dev builds only)
//	hexpat dump header.yaml
package main

import "os"

// DevMode is set with -ldflags "-X main.DevMode=1".
var DevMode string

func main() {
	os.Exit(Execute())
}
