package conventions

import (
	"errors"
)

var ErrArgumentCount = errors.New("unexpected number of arguments")
var ErrArgumentType = errors.New("argument has an unexpected type")
var ErrUnknownField = errors.New("entity has no such field")
