package validate

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"
)

// Wasmer asks wasmer to compile module, returning its validation error if any. Running the same
// bytes through two independently-developed engines catches a bug one validator's assumptions
// happen to let through.
func Wasmer(module []byte) error {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	if _, err := wasmer.NewModule(store, module); err != nil {
		return fmt.Errorf("wasmer: %w", err)
	}
	return nil
}
