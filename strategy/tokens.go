package strategy

import "github.com/freeeve/daide-client/daide/token"

func mustToken(name string) token.Token {
	t, ok := token.ByName(name)
	if !ok {
		panic("strategy: token " + name + " not found in representation table")
	}
	return t
}
