package cmd

import (
	"time"

	"github.com/isometry/gh-workflow-relay/internal/config"
	"github.com/isometry/gh-workflow-relay/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Addr: {
		Name:        "address",
		Description: "The address to serve the service on",
		Short:       helpers.Ptr("a"),
	},
	&config.Service.Port: {
		Name:        "port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}
