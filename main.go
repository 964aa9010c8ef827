package main

import "github.com/Rorical/RoriTwitch/cmd"

func main() {
	cmd.Execute()
}
