package model

import "fmt"

// Voltage is the interconnection voltage class of a plant. Lower classes
// connect closer to the load and skip the transformer and transmission
// stages that a high-voltage interconnection pays for.
type Voltage string

const (
	VoltageLow    Voltage = "low"
	VoltageMedium Voltage = "medium"
	VoltageHigh   Voltage = "high"
)

// ParseVoltage converts a wire value into a Voltage. The empty string maps
// to VoltageHigh, the class assumed when a request does not say otherwise.
func ParseVoltage(s string) (Voltage, error) {
	switch v := Voltage(s); v {
	case VoltageLow, VoltageMedium, VoltageHigh:
		return v, nil
	case "":
		return VoltageHigh, nil
	default:
		return "", fmt.Errorf("unknown interconnection voltage %q (want low, medium, or high)", s)
	}
}

func (v Voltage) String() string { return string(v) }
