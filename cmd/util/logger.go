package util

import "github.com/lni/dragonboat/v4/logger"

// Logger is used by all cli commands
var Logger = logger.GetLogger("cli")
