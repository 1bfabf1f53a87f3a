package actions

import "errors"

// Action registry and dispatch errors.
var (
	// ErrActionNameEmpty is returned when an action has no name.
	ErrActionNameEmpty = errors.New("action name cannot be empty")

	// ErrActionHandlerNil is returned when an action has no handler.
	ErrActionHandlerNil = errors.New("action handler cannot be nil")

	// ErrActionAlreadyRegistered is returned when registering a duplicate.
	ErrActionAlreadyRegistered = errors.New("action already registered")

	// ErrInvalidArgs is returned when an action's arguments are missing or
	// have the wrong shape.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrUnknownDevice is returned by device_control for a device name that
	// matches no known device.
	ErrUnknownDevice = errors.New("unknown device")
)
