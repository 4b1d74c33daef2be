package main

import "github.com/cmmoran/checksum/cmd"

func main() {
	cmd.Execute()
}
