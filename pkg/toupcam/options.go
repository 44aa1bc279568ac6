package toupcam

// Option returns the current value of opt.
func (c *Camera) Option(opt Option) (int, error) {
	var v int32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_Option", l.getOption(h, uint32(opt), &v))
	})
	return int(v), err
}

// SetOption sets opt to v. Some options, such as OptionRaw, only take effect
// before Start.
func (c *Camera) SetOption(opt Option, v int) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_Option", l.putOption(h, uint32(opt), int32(v)))
	})
}

func (c *Camera) optionBool(opt Option) (bool, error) {
	v, err := c.Option(opt)
	return v != 0, err
}

func (c *Camera) setOptionBool(opt Option, on bool) error {
	return c.SetOption(opt, int(cbool(on)))
}

// Raw reports whether frames are delivered as raw sensor data.
func (c *Camera) Raw() (bool, error) {
	return c.optionBool(OptionRaw)
}

func (c *Camera) SetRaw(on bool) error {
	return c.setOptionBool(OptionRaw, on)
}

// BitDepth16 reports whether the sensor runs in high bit depth mode.
func (c *Camera) BitDepth16() (bool, error) {
	return c.optionBool(OptionBitDepth)
}

func (c *Camera) SetBitDepth16(on bool) error {
	return c.setOptionBool(OptionBitDepth, on)
}

func (c *Camera) RGB48() (bool, error) {
	return c.optionBool(OptionRGB48)
}

func (c *Camera) SetRGB48(on bool) error {
	return c.setOptionBool(OptionRGB48, on)
}

func (c *Camera) Fan() (bool, error) {
	return c.optionBool(OptionFan)
}

func (c *Camera) SetFan(on bool) error {
	return c.setOptionBool(OptionFan, on)
}

func (c *Camera) Cooler() (bool, error) {
	return c.optionBool(OptionCooler)
}

func (c *Camera) SetCooler(on bool) error {
	return c.setOptionBool(OptionCooler, on)
}

// TriggerMode reports whether frames are only produced by Trigger.
func (c *Camera) TriggerMode() (bool, error) {
	return c.optionBool(OptionTrigger)
}

func (c *Camera) SetTriggerMode(on bool) error {
	return c.setOptionBool(OptionTrigger, on)
}

