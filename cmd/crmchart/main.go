package main

import "github.com/dbsmedya/crmchart/cmd/crmchart/cmd"

func main() {
	cmd.Execute()
}
