package main

import "github.com/Funmitez/hng13-stage1-devops/cmd"

func main() {
	cmd.Execute()
}
