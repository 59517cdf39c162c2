package main

import (
	"cn-data/internal/app"
	"cn-data/internal/fetch"
	"cn-data/internal/saver"
)

// App holds application dependencies built by Wire.
type App struct {
	Config  *app.Config
	Runtime *fetch.Runtime
	Client  *fetch.Client
	Packets saver.PacketSaver
}
