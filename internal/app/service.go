package app

import (
	"cargo-set/internal/adapters"
	"cargo-set/internal/ports"
)

type Service struct {
	Storage ports.StoragePort
	Codec   ports.ManifestCodecPort
}

func NewService() Service {
	return Service{
		Storage: adapters.NewFileStorageAdapter(),
		Codec:   adapters.NewCargoTomlAdapter(),
	}
}
