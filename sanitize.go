package espalier

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize caps run input at 4KB unless overridden.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize names the environment variable that overrides the
	// default limit when set to a positive integer.
	EnvMaxInputSize = "ESPALIER_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// CheckInput enforces the run input limits: a byte-size cap and UTF-8
// validity. Offending input is rejected outright, never truncated or
// rewritten; any rune can be an alphabet symbol, so dropping characters
// would change what the machine computes.
func CheckInput(input string) error {
	limit := maxInputSize()
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}
	return nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
