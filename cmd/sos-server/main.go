package main

import "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/cmd/sos-server/cmd"

func main() {
	cmd.Execute()
}
