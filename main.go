package main

import "github.com/harshpatel5940/savesync/cmd"

func main() {
	cmd.Execute()
}
