//go:build !gpio

package hw

import (
	"github.com/rs/zerolog/log"

	"hatchctl/mmio"
)

// Open returns a simulated register file. The second return is the backing
// Mem; the front panel uses it to inject input bits. Pinout is ignored in
// this build.
func Open(pinout []int) (mmio.RegisterFile, *mmio.Mem, error) {
	log.Debug().Msg("Hardware will be simulated")
	m := mmio.NewMem()
	return m, m, nil
}

func Close() error {
	log.Debug().Msg("Simulated hardware closing")
	return nil
}
