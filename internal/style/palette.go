package style

// Palette is the set of theme colours the resolver falls back to.
type Palette struct {
	Accent         string `yaml:"accent" json:"accent"`
	AccentDark     string `yaml:"accent_dark" json:"accent_dark"`
	Foreground     string `yaml:"foreground" json:"foreground"`
	DisabledFill   string `yaml:"disabled_fill" json:"disabled_fill"`
	DisabledText   string `yaml:"disabled_text" json:"disabled_text"`
	GradientAngle  int    `yaml:"gradient_angle" json:"gradient_angle"`
	GradientAmount int    `yaml:"gradient_amount" json:"gradient_amount"`
}

// DefaultPalette returns the stock indigo theme.
func DefaultPalette() Palette {
	return Palette{
		Accent:         "#4f46e5",
		AccentDark:     "#3730a3",
		Foreground:     "#ffffff",
		DisabledFill:   "#e5e7eb",
		DisabledText:   "#6b7280",
		GradientAngle:  135,
		GradientAmount: -20,
	}
}

// Normalize fills zero fields from DefaultPalette.
func (p *Palette) Normalize() {
	def := DefaultPalette()
	if p.Accent == "" {
		p.Accent = def.Accent
	}
	if p.AccentDark == "" {
		p.AccentDark = def.AccentDark
	}
	if p.Foreground == "" {
		p.Foreground = def.Foreground
	}
	if p.DisabledFill == "" {
		p.DisabledFill = def.DisabledFill
	}
	if p.DisabledText == "" {
		p.DisabledText = def.DisabledText
	}
	if p.GradientAngle == 0 {
		p.GradientAngle = def.GradientAngle
	}
	if p.GradientAmount == 0 {
		p.GradientAmount = def.GradientAmount
	}
}
