package config

// Precedence: command-line flag > environment > booth file > built-in default.
// Flags arrive zero-valued when not set, so resolution only fills zero fields.

// ResolveServe completes ServeOptions and returns the booth file, if one was
// loaded, so callers can pick up its extra sticker themes.
func ResolveServe(o *ServeOptions) (*BoothFile, error) {
	file, envOpts, err := loadLayers(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	o.Addr = firstNonEmpty(o.Addr, envOpts.Addr, fileString(file, func(f *BoothFile) string { return f.Addr }), DefaultAddr)
	o.Device = firstNonEmpty(o.Device, envOpts.Device, fileString(file, func(f *BoothFile) string { return f.Device }), DefaultDevice)
	o.OutputDir = firstNonEmpty(o.OutputDir, envOpts.OutputDir, fileString(file, func(f *BoothFile) string { return f.OutputDir }), DefaultOutputDir)
	o.Caption = firstNonEmpty(o.Caption, envOpts.Caption, fileString(file, func(f *BoothFile) string { return f.Caption }), DefaultCaption)
	o.FontPath = firstNonEmpty(o.FontPath, envOpts.FontPath, fileString(file, func(f *BoothFile) string { return f.FontPath }), "")
	o.Countdown = firstPositive(o.Countdown, envOpts.Countdown, fileInt(file, func(f *BoothFile) int { return f.Countdown }), DefaultCountdown)

	return file, nil
}

// ResolveCapture completes CaptureOptions the same way.
func ResolveCapture(o *CaptureOptions) (*BoothFile, error) {
	file, envOpts, err := loadLayers(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	o.Device = firstNonEmpty(o.Device, envOpts.Device, fileString(file, func(f *BoothFile) string { return f.Device }), DefaultDevice)
	o.OutputDir = firstNonEmpty(o.OutputDir, envOpts.OutputDir, fileString(file, func(f *BoothFile) string { return f.OutputDir }), DefaultOutputDir)
	o.Caption = firstNonEmpty(o.Caption, envOpts.Caption, fileString(file, func(f *BoothFile) string { return f.Caption }), DefaultCaption)
	o.FontPath = firstNonEmpty(o.FontPath, envOpts.FontPath, fileString(file, func(f *BoothFile) string { return f.FontPath }), "")
	o.Countdown = firstPositive(o.Countdown, envOpts.Countdown, fileInt(file, func(f *BoothFile) int { return f.Countdown }), DefaultCountdown)

	return file, nil
}

func loadLayers(configPath string) (*BoothFile, *EnvOptions, error) {
	var file *BoothFile
	if configPath != "" {
		f, err := LoadFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		file = f
	}

	var envOpts EnvOptions
	if err := ParseEnv(&envOpts); err != nil {
		return nil, nil, err
	}

	return file, &envOpts, nil
}

func fileString(f *BoothFile, get func(*BoothFile) string) string {
	if f == nil {
		return ""
	}
	return get(f)
}

func fileInt(f *BoothFile, get func(*BoothFile) int) int {
	if f == nil {
		return 0
	}
	return get(f)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
