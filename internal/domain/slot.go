package domain

import "github.com/m04kA/atelier-scheduling/pkg/types"

// Slot время начала визита в сетке дня и признак доступности.
// Вычисляется на каждый запрос и не хранится
type Slot struct {
	Time      types.TimeString
	Available bool
}
