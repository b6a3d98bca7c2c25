package method

import "github.com/Mohsinsiddi/lumen/internal/abi"

// abiParam shortens the static tables.
type abiParam = abi.Parameter

// Contract kind IDs.
const (
	KindChapter     = "chapter"
	KindMapper      = "mapper"
	KindFactory     = "factory"
	KindLightSource = "lightsource"
	KindERC20       = "erc20"
)

// Builtins returns the built-in contract tables in a fixed order. Each call
// returns fresh slices; callers may not rely on sharing.
func Builtins() []Contract {
	return []Contract{
		chapterContract(),
		mapperContract(),
		factoryContract(),
		lightSourceContract(),
		erc20Contract(),
	}
}
