package main

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/gpuctx/core"
	"github.com/devblok/gpuctx/device"
)

// report pairs the physical properties of a device with a verdict against
// the default required extension set. Full suitability needs a surface, so
// queue and envelope checks are out of reach here.
type report struct {
	device.PhysicalDeviceInfo

	Suitable bool
	Reason   string `json:",omitempty"`
}

func main() {
	ctx, err := device.NewVulkanContext(device.DefaultApplicationInfo, nil, core.InstanceConfiguration{})
	if err != nil {
		log.Fatalf("instance setup failed: %s", err)
	}
	defer ctx.Destroy()

	required := core.DefaultSelectorConfiguration.RequiredExtensions

	var reports []report
	for _, info := range ctx.PhysicalDevicesInfo() {
		entry := report{PhysicalDeviceInfo: info, Suitable: true}
		if missing := core.MissingExtensions(required, info.Extensions); len(missing) != 0 {
			entry.Suitable = false
			entry.Reason = (&core.MissingExtensionError{Missing: missing}).Error()
		}
		reports = append(reports, entry)
	}

	out, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", out)
}
