package main

import "github.com/KaramelBytes/countrytech/cmd"

func main() {
	cmd.Execute()
}
