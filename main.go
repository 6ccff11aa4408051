package main

import "collection-pricer/cmd"

func main() {
	cmd.Execute()
}
