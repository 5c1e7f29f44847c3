package main

import "github.com/hoppxi/lightroom/internal/cmd"

func main() {
	cmd.Execute()
}
