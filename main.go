package main

import "github.com/Mohsinsiddi/dftcli/cmd"

func main() {
	cmd.Execute()
}
