// Command pagetrace simulates page replacement policies.
package main

import "github.com/sibexico/PageTrace/internal/cli"

func main() {
	cli.Execute()
}
