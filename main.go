package main

import (
	"vericlass.io/infrastructure"
	"vericlass.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
