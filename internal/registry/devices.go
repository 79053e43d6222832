// Package registry blank-imports every vendor driver package so that
// importing it is enough to make all supported USB gamepads recognised,
// without the CLI entrypoint needing to know the vendor driver list.
package registry

import (
	_ "github.com/Alia5/fakemote/drivers/ds3"     // Register DualShock 3 driver
	_ "github.com/Alia5/fakemote/drivers/ds4"     // Register DualShock 4 driver
	_ "github.com/Alia5/fakemote/drivers/xboxone" // Register Xbox One driver
)
