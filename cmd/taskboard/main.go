// Command taskboard manages users, tasks and tags stored in SQLite and can
// serve them over HTTP.
package main

import "github.com/mesh-intelligence/taskboard/internal/cli"

func main() {
	cli.Execute()
}
