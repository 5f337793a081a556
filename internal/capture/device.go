package capture

import (
	"encoding/hex"
	"strings"

	"github.com/gen2brain/malgo"
	"github.com/tphakala/marvin-go/internal/errors"
)

// DeviceInfo holds information about an audio capture device.
type DeviceInfo struct {
	Index int
	Name  string
	ID    string
}

// ListCaptureDevices returns the available audio capture devices.
func ListCaptureDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.HardwareInitError(err, "")
	}
	defer func() { _ = ctx.Uninit() }()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "enumerate_devices").
			Build()
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, DeviceInfo{
			Index: i,
			Name:  info.Name(),
			ID:    decodeDeviceID(info.ID.String()),
		})
	}
	return devices, nil
}

// findCaptureDevice matches a device by name or decoded ID substring.
func findCaptureDevice(ctx *malgo.AllocatedContext, wanted string) (malgo.DeviceInfo, error) {
	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return malgo.DeviceInfo{}, errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "enumerate_devices").
			Build()
	}

	lowered := strings.ToLower(wanted)
	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name()), lowered) ||
			strings.Contains(strings.ToLower(decodeDeviceID(info.ID.String())), lowered) {
			return info, nil
		}
	}

	return malgo.DeviceInfo{}, errors.Newf("capture device not found: %s", wanted).
		Component("capture").
		Category(errors.CategoryHardwareInit).
		Context("device", wanted).
		Build()
}

// decodeDeviceID turns malgo's hex-encoded device IDs back into readable
// strings (ALSA card names on Linux). Falls back to the raw value when the
// ID is not hex.
func decodeDeviceID(hexStr string) string {
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return hexStr
	}
	return strings.TrimRight(string(decoded), "\x00")
}
