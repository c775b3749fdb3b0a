package main

import "github.com/jsphweid/voicedex/cmd"

func main() {
	cmd.Execute()
}
