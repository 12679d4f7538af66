// airshape - command-line tool for Airtable wire payloads
package main

import "github.com/tablekit/airtable.go/internal/cli"

func main() {
	cli.Execute()
}
