package main

import "github.com/ValentinKolb/rpClip/cmd"

func main() {
	cmd.Execute()
}
