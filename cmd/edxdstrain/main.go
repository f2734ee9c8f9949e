// Command edxdstrain reduces EDXD scans to strain.
//
// Usage:
//
//	edxdstrain reduce --config run.yaml --input scan.json [--db results.db] [--report]
//	edxdstrain synth --out scan.json
//	edxdstrain report --db results.db [--run <id>]
//	edxdstrain runs --db results.db
//	edxdstrain fields
//	edxdstrain models
//
// See --help for all available options.
package main

func main() {
	Execute()
}
