// happctl resolves, inspects, refactors and validates helm-apps values
// documents.
//
// Usage:
//
//	# Preview the effective values of one application in an environment
//	happctl resolve values.yaml apps-stateless api --env prod
//
//	# List the environments a document mentions
//	happctl envs values.yaml
//
//	# Find every usage of the include profile under the cursor
//	happctl refs values.yaml 12 14
//
//	# Rename an include profile across the chart
//	happctl rename values.yaml 12 14 base-resources --write
//
//	# Move a key out of an app into a shared profile
//	happctl extract values.yaml 20 probes --write
//
//	# Validate documents, re-running on every change
//	happctl lint values.yaml --watch
//
// Positions on the command line are 1-based, as shown by editors.
package main

import "os"

func main() {
	os.Exit(Execute())
}
