package main

import "github.com/openshift-assisted/ccx-deadletter/cmd/ccx-deadletter/cmd"

func main() {
	cmd.Execute()
}
