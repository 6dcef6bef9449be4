package main

import (
	"github.com/pharmarun/dispatch/internal/app"
	"github.com/pharmarun/dispatch/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
