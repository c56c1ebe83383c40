package strategy

import (
	"fmt"

	"github.com/freeeve/daide-client/daide/client"
)

// ByName looks up a strategy by its CLI/config name. modelPath is only
// used by "neural".
func ByName(name, modelPath string) (client.OrderStrategy, error) {
	switch name {
	case "", "hold":
		return Hold{}, nil
	case "random", "rand":
		return Random{}, nil
	case "neural":
		return NewNeural(modelPath), nil
	default:
		return nil, fmt.Errorf("strategy: unknown strategy %q", name)
	}
}
