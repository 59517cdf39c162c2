//go:build wireinject
// +build wireinject

package main

import (
	"cn-data/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App (Config + Runtime + Client + PacketSaver) via Wire.
// Caller must call a.Runtime.Release() when done.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideRuntime,
		app.ProvideClient,
		app.ProvidePacketSaver,
		wire.Struct(new(App), "Config", "Runtime", "Client", "Packets"),
	)
	return nil, nil
}
