package config

// CaptureOptions defines options for running a timed capture sequence
type CaptureOptions struct {
	Device      string // camera device name, "none" selects the synthetic test pattern
	OutputDir   string
	Countdown   int // seconds per shot: 3, 5 or 10
	FilterKey   string
	StyleKey    string
	CustomColor string // hex fill for the custom style
	ThemeKey    string
	Caption     string
	FontPath    string // optional TTF for the header caption
	Seed        int64  // 0 means time-seeded sticker placement
	Print       bool
	NoGate      bool
	ConfigPath  string
	Verbose     bool
}

// ComposeOptions defines options for compositing a strip from image files
type ComposeOptions struct {
	InputPaths  []string
	OutputDir   string
	FilterKey   string
	StyleKey    string
	CustomColor string
	ThemeKey    string
	Caption     string
	Label       string // timestamp footer; empty means "now"
	FontPath    string
	Seed        int64
	Verbose     bool
}

// ServeOptions defines options for the booth web UI
type ServeOptions struct {
	Addr       string
	Device     string
	OutputDir  string
	Countdown  int
	Caption    string
	FontPath   string
	NoGate     bool
	ConfigPath string
	Verbose    bool
}

const (
	// Camera capture resolution (640x480, user-facing)
	CaptureWidth  = 640
	CaptureHeight = 480

	// Strip layout
	PhotoWidth  = 480
	PhotoHeight = 360
	SideMargin  = 40
	StripWidth  = PhotoWidth + 2*SideMargin // 560
	HeaderPad   = 110                       // reserved above the first photo
	PhotoGap    = 24                        // between stacked photos
	BottomPad   = 90                        // reserved for the timestamp label
	StickerSize = PhotoWidth / 6            // 80

	// Encode quality
	SnapshotQuality = 92 // intermediate stills
	StripQuality    = 85 // downloadable artifact

	// Artifact naming
	FilenamePrefix = "cosmic-photobooth-"

	// Text settings
	HeaderTextSize = 44
	LabelTextSize  = 20
	DefaultCaption = "Cosmic Photobooth"

	// Defaults
	DefaultAddr      = "127.0.0.1:8793"
	DefaultCountdown = 3
	DefaultDevice    = "/dev/video0"
	DefaultOutputDir = "."
)
