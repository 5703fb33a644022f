package main

import "github.com/llehouerou/deck/cmd"

func main() {
	cmd.Execute()
}
