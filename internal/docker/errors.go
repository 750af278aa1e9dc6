package docker

import "errors"

// ErrDaemonUnavailable is returned when the Docker daemon cannot be reached.
var ErrDaemonUnavailable = errors.New("docker daemon is not available")

// ErrContainerNotFound is returned when a name or ID does not resolve to a container.
var ErrContainerNotFound = errors.New("could not find container")
