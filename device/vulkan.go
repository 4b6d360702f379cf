package device

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/gpuctx/core"
)

// DefaultApplicationInfo describes the application to the Vulkan driver
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("gpuctx"),
	PEngineName:        safeString("gpuctx"),
}

// NewVulkanContext initialises the Vulkan loader, creates an instance and
// enumerates the physical devices behind it. procAddr is the
// vkGetInstanceProcAddr pointer from the windowing library; pass nil to let
// the loader find it.
func NewVulkanContext(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg core.InstanceConfiguration) (*VulkanContext, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, "VK_LAYER_KHRONOS_validation")
		cfg.Extensions = append(cfg.Extensions, "VK_EXT_debug_report")
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	vk.InitInstance(instance)

	ctx := &VulkanContext{
		configuration: cfg,
		instance:      instance,
	}
	if err := ctx.enumerateDevices(); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	return ctx, nil
}

// VulkanContext is the Vulkan implementation of the graphics API boundary.
// It owns the instance and every handle it creates; the physical device and
// surface handles it exposes stay opaque to the core and are only read back
// through the core.CapabilityQuery methods.
type VulkanContext struct {
	configuration core.InstanceConfiguration

	availableDevices []vk.PhysicalDevice

	instance vk.Instance
	surface  vk.Surface

	device        vk.Device
	graphicsQueue vk.Queue
	presentQueue  vk.Queue

	swapchain       vk.Swapchain
	swapchainImages []vk.Image
	presentation    core.PresentationConfig
}

func (v *VulkanContext) enumerateDevices() error {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, nil)); err != nil {
		return errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	v.availableDevices = make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(v.instance, &deviceCount, v.availableDevices)); err != nil {
		return errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	return nil
}

// Devices implements core.CapabilityQuery
func (v *VulkanContext) Devices() ([]core.Device, error) {
	devices := make([]core.Device, len(v.availableDevices))
	for i, device := range v.availableDevices {
		devices[i] = device
	}
	return devices, nil
}

// QueueFamilies implements core.CapabilityQuery
func (v *VulkanContext) QueueFamilies(device core.Device) ([]core.QueueFamilyProperties, error) {
	physical, err := physicalDevice(device)
	if err != nil {
		return nil, err
	}

	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, families)

	properties := make([]core.QueueFamilyProperties, familyCount)
	for idx := range families {
		families[idx].Deref()
		properties[idx] = core.QueueFamilyProperties{
			Flags: core.QueueFlags(families[idx].QueueFlags),
		}
	}
	return properties, nil
}

// PresentSupport implements core.CapabilityQuery
func (v *VulkanContext) PresentSupport(device core.Device, family uint32, surface core.Surface) (bool, error) {
	physical, err := physicalDevice(device)
	if err != nil {
		return false, err
	}
	target, err := windowSurface(surface)
	if err != nil {
		return false, err
	}

	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(physical, family, target, &supported)); err != nil {
		return false, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
	}
	return supported.B(), nil
}

// DeviceExtensions implements core.CapabilityQuery
func (v *VulkanContext) DeviceExtensions(device core.Device) ([]string, error) {
	physical, err := physicalDevice(device)
	if err != nil {
		return nil, err
	}

	var extensionCount uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physical, "", &extensionCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	extensions := make([]vk.ExtensionProperties, extensionCount)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physical, "", &extensionCount, extensions)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}

	names := make([]string, 0, extensionCount)
	for _, extension := range extensions {
		extension.Deref()
		names = append(names, vk.ToString(extension.ExtensionName[:]))
	}
	return names, nil
}

// SurfaceCapabilities implements core.CapabilityQuery
func (v *VulkanContext) SurfaceCapabilities(device core.Device, surface core.Surface) (*core.SurfaceCapabilities, error) {
	physical, err := physicalDevice(device)
	if err != nil {
		return nil, err
	}
	target, err := windowSurface(surface)
	if err != nil {
		return nil, err
	}

	var surfaceCapabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(physical, target, &surfaceCapabilities)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	surfaceCapabilities.Deref()
	surfaceCapabilities.CurrentExtent.Deref()
	surfaceCapabilities.MinImageExtent.Deref()
	surfaceCapabilities.MaxImageExtent.Deref()

	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(physical, target, &formatCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	surfaceFormats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(physical, target, &formatCount, surfaceFormats)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}

	var modeCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(physical, target, &modeCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	presentModes := make([]vk.PresentMode, modeCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(physical, target, &modeCount, presentModes)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}

	capabilities := &core.SurfaceCapabilities{
		MinImageCount:  surfaceCapabilities.MinImageCount,
		MaxImageCount:  surfaceCapabilities.MaxImageCount,
		CurrentExtent:  extent2D(surfaceCapabilities.CurrentExtent),
		MinImageExtent: extent2D(surfaceCapabilities.MinImageExtent),
		MaxImageExtent: extent2D(surfaceCapabilities.MaxImageExtent),
	}
	for _, format := range surfaceFormats {
		format.Deref()
		capabilities.Formats = append(capabilities.Formats, core.SurfaceFormat{
			Format:     core.Format(format.Format),
			ColorSpace: core.ColorSpace(format.ColorSpace),
		})
	}
	for _, mode := range presentModes {
		capabilities.PresentModes = append(capabilities.PresentModes, core.PresentMode(mode))
	}
	return capabilities, nil
}

// PhysicalDevicesInfo implements Context
func (v *VulkanContext) PhysicalDevicesInfo() []PhysicalDeviceInfo {
	info := make([]PhysicalDeviceInfo, len(v.availableDevices))
	for idx, device := range v.availableDevices {
		info[idx] = v.deviceInfo(device)
	}
	return info
}

func (v *VulkanContext) deviceInfo(device vk.PhysicalDevice) PhysicalDeviceInfo {
	var info PhysicalDeviceInfo

	extensions, err := v.DeviceExtensions(device)
	if err != nil {
		info.Invalid = true
	}
	info.Extensions = extensions

	var layerCount uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &layerCount, nil)); err != nil {
		info.Invalid = true
	}
	layers := make([]vk.LayerProperties, layerCount)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &layerCount, layers)); err != nil {
		info.Invalid = true
	}
	for _, layer := range layers {
		layer.Deref()
		info.Layers = append(info.Layers, vk.ToString(layer.LayerName[:]))
	}

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(device, &memoryProperties)
	memoryProperties.Deref()
	for idx := uint32(0); idx < memoryProperties.MemoryHeapCount; idx++ {
		memoryProperties.MemoryHeaps[idx].Deref()
		info.Memory += memoryProperties.MemoryHeaps[idx].Size
	}

	var deviceProperties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &deviceProperties)
	deviceProperties.Deref()
	info.ID = int(deviceProperties.DeviceID)
	info.VendorID = int(deviceProperties.VendorID)
	info.Name = vk.ToString(deviceProperties.DeviceName[:])
	info.DriverVersion = int(deviceProperties.DriverVersion)

	return info
}

// SetSurface implements Context
func (v *VulkanContext) SetSurface(pSurface unsafe.Pointer) {
	v.surface = vk.SurfaceFromPointer(uintptr(pSurface))
}

// Surface implements Context
func (v *VulkanContext) Surface() core.Surface {
	return v.surface
}

// Instance implements Context
func (v *VulkanContext) Instance() interface{} {
	return v.instance
}

// CreateDevice creates the logical device on the chosen physical device,
// with one queue per unique resolved family and the given device
// extensions enabled. The queue family indices must be complete.
func (v *VulkanContext) CreateDevice(device core.Device, indices core.QueueFamilyIndices, extensions []string) error {
	if !indices.Complete() {
		return core.ErrIncompleteQueueIndices
	}
	physical, err := physicalDevice(device)
	if err != nil {
		return err
	}

	queuePriorities := []float32{1.0}
	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range indices.Unique() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: queuePriorities,
		})
	}

	deviceInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var logical vk.Device
	if err := vk.Error(vk.CreateDevice(physical, &deviceInfo, nil, &logical)); err != nil {
		return errors.Wrap(err, "vk.CreateDevice()")
	}

	vk.GetDeviceQueue(logical, *indices.Graphics, 0, &v.graphicsQueue)
	vk.GetDeviceQueue(logical, *indices.Present, 0, &v.presentQueue)
	v.device = logical

	return nil
}

// CreateSwapchain creates the presentation pipeline from a negotiated
// configuration. The configuration is applied verbatim; CreateDevice must
// have succeeded first.
func (v *VulkanContext) CreateSwapchain(config core.PresentationConfig) error {
	if v.device == nil {
		return errors.New("no logical device, CreateDevice must run first")
	}

	swapchainInfo := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         v.surface,
		MinImageCount:   config.ImageCount,
		ImageFormat:     vk.Format(config.Format),
		ImageColorSpace: vk.ColorSpace(config.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  config.Extent.Width,
			Height: config.Extent.Height,
		},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingMode(config.SharingMode),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentMode(config.PresentMode),
		Clipped:          vk.True,
	}
	if config.SharingMode == core.SharingModeConcurrent {
		swapchainInfo.QueueFamilyIndexCount = uint32(len(config.QueueFamilyIndices))
		swapchainInfo.PQueueFamilyIndices = config.QueueFamilyIndices
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(v.device, &swapchainInfo, nil, &swapchain)); err != nil {
		return errors.Wrap(err, "vk.CreateSwapchain()")
	}
	v.swapchain = swapchain
	v.presentation = config

	var imageCount uint32
	if err := vk.Error(vk.GetSwapchainImages(v.device, v.swapchain, &imageCount, nil)); err != nil {
		return errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	v.swapchainImages = make([]vk.Image, imageCount)
	if err := vk.Error(vk.GetSwapchainImages(v.device, v.swapchain, &imageCount, v.swapchainImages)); err != nil {
		return errors.Wrap(err, "vk.GetSwapchainImages()")
	}

	return nil
}

// GraphicsQueue returns the command submission queue. Valid after
// CreateDevice.
func (v *VulkanContext) GraphicsQueue() vk.Queue {
	return v.graphicsQueue
}

// PresentQueue returns the presentation queue. Valid after CreateDevice.
func (v *VulkanContext) PresentQueue() vk.Queue {
	return v.presentQueue
}

// Presentation returns the configuration the current swapchain was created
// with.
func (v *VulkanContext) Presentation() core.PresentationConfig {
	return v.presentation
}

// Destroy implements Context
func (v *VulkanContext) Destroy() {
	if v == nil {
		return
	}
	if v.device != nil {
		vk.DeviceWaitIdle(v.device)
		if v.swapchain != vk.NullSwapchain {
			vk.DestroySwapchain(v.device, v.swapchain, nil)
		}
		vk.DestroyDevice(v.device, nil)
	}
	if v.surface != vk.NullSurface {
		vk.DestroySurface(v.instance, v.surface, nil)
	}
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
}

func physicalDevice(device core.Device) (vk.PhysicalDevice, error) {
	physical, ok := device.(vk.PhysicalDevice)
	if !ok {
		return nil, errors.Newf("not a vulkan physical device handle: %T", device)
	}
	return physical, nil
}

func windowSurface(surface core.Surface) (vk.Surface, error) {
	target, ok := surface.(vk.Surface)
	if !ok {
		return vk.NullSurface, errors.Newf("not a vulkan surface handle: %T", surface)
	}
	return target, nil
}

func extent2D(extent vk.Extent2D) core.Extent2D {
	return core.Extent2D{
		Width:  extent.Width,
		Height: extent.Height,
	}
}
