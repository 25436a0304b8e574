package main

import "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/cmd/sos-gateway/cmd"

func main() {
	cmd.Execute()
}
