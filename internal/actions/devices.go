package actions

import (
	"context"
	"fmt"
	"strings"

	"dashy/internal/interpret"
	"dashy/internal/store"
)

// DeviceControlArgs are the arguments for the device_control action.
type DeviceControlArgs struct {
	DeviceName string `json:"device_name"`
	State      string `json:"state"`
}

func registerDeviceActions(r *Registry, devices store.DeviceBackend) {
	r.MustRegister(&Action{
		Name:        "device_control",
		Description: "Switches smart home devices on or off",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args DeviceControlArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			if args.DeviceName == "" || args.State == "" {
				return Outcome{}, fmt.Errorf("%w: device_control needs device_name and state", ErrInvalidArgs)
			}

			dev := strings.ToLower(args.DeviceName)
			state := strings.ToLower(args.State)

			switch {
			case strings.Contains(dev, "light"):
				on := state == "on"
				devices.SetLight(on)
				word := "Off"
				if on {
					word = "On"
				}
				return Outcome{LogMessage: fmt.Sprintf("Overhead light is now %s.", word)}, nil

			case strings.Contains(dev, "speaker"):
				playing := state == "on" || state == "playing"
				devices.SetSpeaker(playing)
				word := "Paused"
				if playing {
					word = "Playing"
				}
				return Outcome{LogMessage: fmt.Sprintf("Kitchen speaker is now %s.", word)}, nil
			}

			return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownDevice, args.DeviceName)
		},
	})
}
