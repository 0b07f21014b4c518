package handler

import (
	"digame/internal/app/bin"
	"digame/internal/configs"
	"digame/internal/pkg/pow"
)

// AppDeps groups what the HTTP handlers need.
type AppDeps struct {
	Config *configs.AppConfig
	Bins   *bin.Service

	// PoW gates bin creation. Nil disables the gate.
	PoW *pow.Manager
}
