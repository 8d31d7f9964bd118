package common

import (
	"strconv"
	"strings"
)

const (
	ModelPravirX4 = "PRAVIR-X4"
	ModelAloka    = "ALOKA"
	ModelUnknown  = "Unknown"
)

// SerialRange is an inclusive block of serial numbers assigned to one model.
type SerialRange struct {
	Model string `json:"model"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

var serialRanges = []SerialRange{
	{Model: ModelPravirX4, Min: 1000, Max: 1999},
	{Model: ModelAloka, Min: 2000, Max: 2099},
}

// ModelFromSerial resolves the airframe model from a serial number.
// Anything non-numeric or outside a known block is "Unknown".
func ModelFromSerial(serialNum string) string {
	num, err := strconv.Atoi(strings.TrimSpace(serialNum))
	if err != nil {
		return ModelUnknown
	}
	for _, r := range serialRanges {
		if num >= r.Min && num <= r.Max {
			return r.Model
		}
	}
	return ModelUnknown
}

// SerialRangeFor returns the serial block of a model; ok is false for unknown models.
func SerialRangeFor(model string) (SerialRange, bool) {
	for _, r := range serialRanges {
		if r.Model == model {
			return r, true
		}
	}
	return SerialRange{Model: model}, false
}

// KnownModels lists every model with an assigned serial block, in block order.
func KnownModels() []string {
	models := make([]string, 0, len(serialRanges))
	for _, r := range serialRanges {
		models = append(models, r.Model)
	}
	return models
}
