package main

import "github.com/xfinder/reporting-api/cmd"

func main() {
	cmd.Execute()
}
