// Package hal implements the platform hardware-abstraction layer for the
// supported switch models. Each device type is a thin translator between raw
// text sysfs nodes exposed by the platform kernel drivers (hwmon/CPLD) and
// the API consumed by the monitoring and fan-control daemons.
package hal

import "errors"

// NotAvailable is reported for identity fields the platform EEPROM does not
// expose through this layer.
const NotAvailable = "N/A"

// ErrNotSupported is returned by operations the hardware has no node for.
var ErrNotSupported = errors.New("operation not supported on this platform")

// Fan airflow direction.
const (
	DirectionExhaust       = "exhaust" // F2B, front-to-back
	DirectionIntake        = "intake"  // B2F, back-to-front
	DirectionNotApplicable = "N/A"
)

// Status LED colors.
const (
	LEDGreen = "green"
	LEDAmber = "amber"
	LEDOff   = "off"
)
