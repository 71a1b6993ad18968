package main

import (
	app "github.com/slimtoolkit/imgpkg/pkg/app/master"
)

func main() {
	app.Run()
}
